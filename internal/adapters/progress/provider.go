package progress

import (
	"os"

	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// ProvideProgressSink picks the sink for the run mode. Progress goes to
// stderr so stdout stays clean for --json.
func ProvideProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	switch {
	case cfg.JSON:
		return NewNopSink()
	case cfg.NonInteractive || cfg.Debug:
		return NewLineProgress(os.Stderr)
	default:
		return NewSpinnerProgress(os.Stderr)
	}
}
