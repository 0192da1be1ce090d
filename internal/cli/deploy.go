package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		tags []string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deploy scripts against the selected network",
		Long: `Run the deploy scripts in order against the selected network.

Scripts:
  00-deploy-mocks     [all, mocks]   MockV3Aggregator, development networks only
  01-deploy-fund-me   [all, fundme]  FundMe with the network's ETH/USD price feed

FundMe is verified on Etherscan after deployment when the network is not a
development network and an API key is configured. A failed verification is
recorded on the deployment and does not fail the run.`,
		Example: `  # Deploy everything to the local node
  fundme deploy

  # Deploy only the mocks
  fundme deploy --tags mocks

  # Deploy to sepolia without the confirmation prompt
  fundme deploy --network sepolia --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RunDeployments.Run(cmd.Context(), usecase.RunDeploymentsParams{
				Tags: tags,
				Yes:  yes,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.DeploymentViews(result.Deployments))
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only run scripts with one of these tags (default all)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt on live networks")

	return cmd
}
