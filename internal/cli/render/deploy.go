package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// DeployRenderer renders the outcome of a deploy run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render implements Renderer
func (r *DeployRenderer) Render(result *usecase.RunDeploymentsResult) error {
	network := result.Network
	sectionHeaderStyle.Fprintf(r.out, "Deploy scripts on %s (chain %d)\n", network.Name, network.ChainID)
	for _, script := range result.Scripts {
		tags := strings.Join(script.Tags, ", ")
		if script.Skipped {
			timestampStyle.Fprintf(r.out, "  ⏭️  %s [%s] skipped\n", script.Name, tags)
			continue
		}
		color.New(color.FgGreen).Fprintf(r.out, "  ✓ %s [%s]\n", script.Name, tags)
	}
	fmt.Fprintln(r.out)

	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "Nothing was deployed")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Contract", "Address", "Gas Used", "Verification"})
	for _, dep := range result.Deployments {
		gas := "-"
		if dep.Receipt != nil {
			gas = fmt.Sprintf("%d", dep.Receipt.GasUsed)
		}
		t.AppendRow(table.Row{
			contractStyle.Sprint(dep.ContractName),
			addressStyle.Sprint(dep.Address),
			gas,
			FormatVerification(dep.Verification.Status),
		})
	}
	t.Render()
	return nil
}
