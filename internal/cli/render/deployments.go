package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Color styles for table format
var (
	networkBg          = color.BgCyan
	networkHeader      = color.New(networkBg, color.FgBlack)
	networkHeaderBold  = color.New(networkBg, color.FgBlack, color.Bold)
	addressStyle       = color.New(color.FgWhite)
	timestampStyle     = color.New(color.Faint)
	pendingStyle       = color.New(color.FgYellow)
	verifiedStyle      = color.New(color.FgGreen)
	notVerifiedStyle   = color.New(color.FgRed)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	contractStyle      = color.New(color.FgGreen, color.Bold)
	mockStyle          = color.New(color.FgBlue, color.Bold)
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

type TableData [][]string

// DeploymentsRenderer renders deployment lists grouped by network
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders deployments in the tree-style format.
// Deployments are expected sorted by network.
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	var networks []string
	groups := make(map[string][]*models.Deployment)
	for _, dep := range result.Deployments {
		if _, ok := groups[dep.Network]; !ok {
			networks = append(networks, dep.Network)
		}
		groups[dep.Network] = append(groups[dep.Network], dep)
	}

	// Build all tables first so columns line up across networks
	tables := make([]TableData, 0, len(networks))
	for _, network := range networks {
		tables = append(tables, r.buildDeploymentTable(groups[network]))
	}
	widths := calculateTableColumnWidths(tables)

	for i, network := range networks {
		deployments := groups[network]
		treePrefix := "├─"
		continuationPrefix := "│ "
		if i == len(networks)-1 {
			treePrefix = "└─"
			continuationPrefix = "  "
		}

		label := fmt.Sprintf("%-10s", "network:")
		value := fmt.Sprintf("%-30s", fmt.Sprintf("%s (%d)", network, deployments[0].ChainID))
		fmt.Fprintf(r.out, "%s%s%s\n", treePrefix, networkHeader.Sprintf(" ⛓ %s ", label), networkHeaderBold.Sprint(value))
		fmt.Fprintln(r.out, continuationPrefix)
		fmt.Fprintln(r.out, renderTableWithWidths(tables[i], widths, continuationPrefix))
		fmt.Fprintln(r.out, continuationPrefix)
	}

	summary := result.Summary
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprintf("%d deployment(s), %d verified", summary.Total, summary.Verified))
	return nil
}

func (r *DeploymentsRenderer) buildDeploymentTable(deployments []*models.Deployment) TableData {
	tableData := make(TableData, 0, len(deployments))
	for _, dep := range deployments {
		name := contractStyle.Sprint(dep.ContractName)
		if dep.ContractName == usecase.MockAggregatorName {
			name = mockStyle.Sprint(dep.ContractName)
		}
		tableData = append(tableData, []string{
			name,
			addressStyle.Sprint(dep.Address),
			FormatVerification(dep.Verification.Status),
			timestampStyle.Sprint(shortHash(dep.TransactionHash)),
			formatTime(dep.CreatedAt),
		})
	}
	return tableData
}

// renderTableWithWidths renders a table with specific column widths
func renderTableWithWidths(tableData TableData, columnWidths []int, continuationPrefix string) string {
	if len(tableData) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, len(columnWidths))
	for i, width := range columnWidths {
		if i == 0 {
			width += 2 + len([]rune(continuationPrefix))
		}
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
			WidthMax: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	for _, row := range tableData {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			if i == 0 {
				tableRow[i] = continuationPrefix + cell
			} else {
				tableRow[i] = cell
			}
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

// stripAnsiCodes removes ANSI escape sequences from a string
func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// calculateTableColumnWidths calculates column widths for multiple tables
func calculateTableColumnWidths(tables []TableData) []int {
	maxCols := 0
	for _, t := range tables {
		for _, row := range t {
			maxCols = max(maxCols, len(row))
		}
	}

	widths := make([]int, maxCols)
	for _, t := range tables {
		for _, row := range t {
			for colIdx, cell := range row {
				widths[colIdx] = max(widths[colIdx], len([]rune(stripAnsiCodes(cell))))
			}
		}
	}
	return widths
}

// DeploymentView is the serialized form of a deployment listing
type DeploymentView struct {
	Contract     string   `json:"contract" yaml:"contract"`
	Network      string   `json:"network" yaml:"network"`
	ChainID      uint64   `json:"chainId" yaml:"chainId"`
	Address      string   `json:"address" yaml:"address"`
	Deployer     string   `json:"deployer" yaml:"deployer"`
	Transaction  string   `json:"transactionHash" yaml:"transactionHash"`
	Verification string   `json:"verification" yaml:"verification"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty"`
	Args         []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// DeploymentViews flattens deployments for JSON and YAML output
func DeploymentViews(deployments []*models.Deployment) []DeploymentView {
	views := make([]DeploymentView, 0, len(deployments))
	for _, dep := range deployments {
		status := dep.Verification.Status
		if status == "" {
			status = models.VerificationStatusUnverified
		}
		views = append(views, DeploymentView{
			Contract:     dep.ContractName,
			Network:      dep.Network,
			ChainID:      dep.ChainID,
			Address:      dep.Address,
			Deployer:     dep.Deployer,
			Transaction:  dep.TransactionHash,
			Verification: strings.ToLower(string(status)),
			URL:          dep.Verification.URL,
			Args:         dep.Args,
		})
	}
	return views
}
