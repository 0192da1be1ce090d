package progress

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// LineProgress prints one line per event for non-interactive runs and logs
type LineProgress struct {
	out io.Writer
	mu  sync.Mutex
}

// NewLineProgress creates a line printer writing to out
func NewLineProgress(out io.Writer) *LineProgress {
	return &LineProgress{out: out}
}

// OnProgress prints the event message, prefixed with its stage
func (p *LineProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Message == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if event.Total > 0 {
		fmt.Fprintf(p.out, "[%s %d/%d] %s\n", event.Stage, event.Current, event.Total, event.Message)
		return
	}
	if event.Stage != "" {
		fmt.Fprintf(p.out, "[%s] %s\n", event.Stage, event.Message)
		return
	}
	fmt.Fprintln(p.out, event.Message)
}

func (p *LineProgress) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, message)
}

func (p *LineProgress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = color.New(color.FgRed).Fprintln(p.out, message)
}

var _ usecase.ProgressSink = (*LineProgress)(nil)
