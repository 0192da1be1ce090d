package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks with their price feeds
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in fundme.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "Price Feed", "Confirmations"})

	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Current {
			marker = "*"
		}
		if network.Error != nil {
			t.AppendRow(table.Row{marker, network.Name, notVerifiedStyle.Sprintf("error: %v", network.Error), "", ""})
			continue
		}

		feed := "-"
		switch {
		case network.Development:
			feed = mockStyle.Sprint("mock")
		case network.PriceFeed != nil:
			feed = addressStyle.Sprint(network.PriceFeed.Hex())
		}
		t.AppendRow(table.Row{marker, network.Name, network.ChainID, feed, network.Confirmations})
	}
	t.Render()
	return nil
}

// NetworkView is the --json shape of a network
type NetworkView struct {
	Name          string `json:"name"`
	ChainID       uint64 `json:"chainId,omitempty"`
	Development   bool   `json:"development"`
	Current       bool   `json:"current"`
	PriceFeed     string `json:"priceFeed,omitempty"`
	Confirmations uint64 `json:"confirmations,omitempty"`
	Error         string `json:"error,omitempty"`
}

// NetworkViews flattens a network listing for JSON output
func NetworkViews(result *usecase.ListNetworksResult) []NetworkView {
	views := make([]NetworkView, 0, len(result.Networks))
	for _, network := range result.Networks {
		view := NetworkView{
			Name:          network.Name,
			ChainID:       network.ChainID,
			Development:   network.Development,
			Current:       network.Name == result.Current,
			Confirmations: network.Confirmations,
		}
		if network.PriceFeed != nil {
			view.PriceFeed = network.PriceFeed.Hex()
		}
		if network.Error != nil {
			view.Error = network.Error.Error()
		}
		views = append(views, view)
	}
	return views
}
