package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// FundMeRenderer renders fund, withdraw and inspect results
type FundMeRenderer struct {
	out io.Writer
}

// NewFundMeRenderer creates a new FundMe renderer
func NewFundMeRenderer(out io.Writer) *FundMeRenderer {
	return &FundMeRenderer{out: out}
}

// RenderFund renders a successful fund() call
func (r *FundMeRenderer) RenderFund(result *models.FundResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Funded %s with %s", result.Contract.Hex(), FormatEther(result.Amount))))
	fmt.Fprintf(r.out, "   Funder:        %s\n", formatAddress(result.Funder))
	fmt.Fprintf(r.out, "   Total funded:  %s\n", FormatEther(result.AmountFunded))
	r.renderReceipt(result.Receipt)
	return nil
}

// RenderWithdraw renders a successful withdraw() or cheaperWithdraw() call
func (r *FundMeRenderer) RenderWithdraw(result *models.WithdrawResult) error {
	method := "withdraw()"
	if result.Cheaper {
		method = "cheaperWithdraw()"
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s sent %s to %s", method, FormatEther(result.StartingContractBalance), result.Owner.Hex())))

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"", "Before", "After"})
	t.AppendRow(table.Row{"Contract", FormatEther(result.StartingContractBalance), FormatEther(result.EndingContractBalance)})
	t.AppendRow(table.Row{"Owner", FormatEther(result.StartingOwnerBalance), FormatEther(result.EndingOwnerBalance)})
	t.Render()

	r.renderReceipt(result.Receipt)
	if !result.Reconciles() {
		fmt.Fprintln(r.out, FormatWarning("owner balance change does not match contract balance minus gas"))
	}
	return nil
}

// RenderState renders a FundMe snapshot
func (r *FundMeRenderer) RenderState(state *models.FundMeState) error {
	sectionHeaderStyle.Fprintf(r.out, "FundMe on %s\n", state.Network)
	fmt.Fprintf(r.out, "   Address:     %s\n", formatAddress(state.Address))
	fmt.Fprintf(r.out, "   Owner:       %s\n", formatAddress(state.Owner))
	fmt.Fprintf(r.out, "   Price feed:  %s\n", formatAddress(state.PriceFeed))
	fmt.Fprintf(r.out, "   Balance:     %s\n", FormatEther(state.Balance))
	fmt.Fprintln(r.out)

	if len(state.Funders) == 0 {
		fmt.Fprintln(r.out, "No funders yet")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"#", "Funder", "Amount"})
	for i, funder := range state.Funders {
		t.AppendRow(table.Row{i, funder.Address.Hex(), FormatEther(funder.Amount)})
	}
	t.Render()
	return nil
}

func (r *FundMeRenderer) renderReceipt(receipt *models.TxReceipt) {
	if receipt == nil {
		return
	}
	color.New(color.Faint).Fprintf(r.out, "   tx %s (block %d, gas %d, cost %s)\n",
		receipt.Hash.Hex(), receipt.BlockNumber, receipt.GasUsed, FormatEther(receipt.GasCost()))
}
