package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		all      bool
		yamlFlag bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "deployments"},
		Short:   "List stored deployments",
		Long: `List the deployments recorded under deployments/<network>/.

Only the selected network is shown unless --all is given.`,
		Example: `  # List deployments on the local node
  fundme list

  # List every network as YAML
  fundme list --all --yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				AllNetworks: all,
			})
			if err != nil {
				return err
			}

			switch {
			case app.Config.JSON:
				return render.RenderJSON(cmd.OutOrStdout(), render.DeploymentViews(result.Deployments))
			case yamlFlag:
				return render.RenderYAML(cmd.OutOrStdout(), render.DeploymentViews(result.Deployments))
			default:
				return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result)
			}
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List deployments on every network")
	cmd.Flags().BoolVar(&yamlFlag, "yaml", false, "Output in YAML format")

	return cmd
}
