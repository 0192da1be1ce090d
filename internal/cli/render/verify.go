package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// RenderVerifyResult renders the result of verifying a stored deployment
func (r *VerifyRenderer) RenderVerifyResult(result *usecase.VerifyResult) error {
	deployment := result.Deployment
	target := fmt.Sprintf("%s/%s", result.Network.Name, deployment.ContractName)

	if result.Skipped {
		color.New(color.FgYellow).Fprintf(r.out, "Contract %s is already verified. Use --force to re-verify.\n", target)
		return nil
	}

	if !result.Success {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("Verification of %s failed: %v", target, result.Error)))
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Verified %s at %s", target, deployment.Address)))
	if deployment.Verification.URL != "" {
		color.New(color.FgBlue).Fprintf(r.out, "   %s\n", deployment.Verification.URL)
	}
	return nil
}
