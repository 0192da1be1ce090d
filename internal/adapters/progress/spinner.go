package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// SpinnerProgress shows a spinner with the trail of stages seen so far
type SpinnerProgress struct {
	out     io.Writer
	spinner *spinner.Spinner

	mu     sync.Mutex
	stages []stageInfo
}

type stageInfo struct {
	Stage     string
	StartTime time.Time
	EndTime   time.Time
	Message   string
}

// NewSpinnerProgress creates a spinner writing to out
func NewSpinnerProgress(out io.Writer) *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	_ = s.Color("cyan", "bold")

	return &SpinnerProgress{
		out:     out,
		spinner: s,
	}
}

// OnProgress handles progress events
func (p *SpinnerProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if event.Stage != "" {
		p.enterStage(event.Stage, event.Message)
	}

	if event.Stage == usecase.StageCompleted {
		p.spinner.Stop()
		return
	}

	if event.Spinner {
		p.spinner.Suffix = " " + p.trail()
		if !p.spinner.Active() {
			p.spinner.Start()
		}
	} else if p.spinner.Active() {
		p.spinner.Stop()
	}
}

// Info prints an info message
func (p *SpinnerProgress) Info(message string) {
	p.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (p *SpinnerProgress) Error(message string) {
	p.println(color.New(color.FgRed), message)
}

// println prints above the spinner
func (p *SpinnerProgress) println(c *color.Color, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasActive := p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}
	_, _ = c.Fprintln(p.out, message)
	if wasActive {
		p.spinner.Start()
	}
}

// enterStage closes the running stage when the stage changes
func (p *SpinnerProgress) enterStage(stage, message string) {
	now := time.Now()
	if n := len(p.stages); n > 0 {
		current := &p.stages[n-1]
		if current.Stage == stage {
			current.Message = message
			return
		}
		current.EndTime = now
	}
	p.stages = append(p.stages, stageInfo{Stage: stage, StartTime: now, Message: message})
}

// trail renders "✓ Resolving (12ms) → ● Deploying: Deploying FundMe (3s)"
func (p *SpinnerProgress) trail() string {
	parts := make([]string, 0, len(p.stages))
	for _, stage := range p.stages {
		if stage.EndTime.IsZero() {
			label := stage.Stage
			if stage.Message != "" {
				label += ": " + stage.Message
			}
			parts = append(parts, fmt.Sprintf("● %s (%s)", color.New(color.FgYellow).Sprint(label), time.Since(stage.StartTime).Round(time.Second)))
			continue
		}
		parts = append(parts, fmt.Sprintf("✓ %s (%s)", color.New(color.FgGreen).Sprint(stage.Stage), stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond)))
	}
	return strings.Join(parts, " → ")
}

var _ usecase.ProgressSink = (*SpinnerProgress)(nil)
