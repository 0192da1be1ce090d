package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "verify [contract]",
		Short: "Verify a deployed contract on the block explorer",
		Long: `Verify a stored deployment on the network's block explorer and record the
outcome on the deployment. Defaults to FundMe.`,
		Example: `  fundme verify --network sepolia
  fundme verify FundMe --network sepolia --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			name := usecase.FundMeName
			if len(args) == 1 {
				name = args[0]
			}

			params := usecase.VerifyParams{ContractName: name, Force: force}
			result, err := app.VerifyDeployment.Run(cmd.Context(), params)

			// Offer the close matches when the name was mistyped
			var notFound domain.DeploymentNotFoundError
			if errors.As(err, &notFound) && len(notFound.Suggestions) > 0 && !app.Config.NonInteractive && app.Selector != nil {
				picked, selectErr := app.Selector.SelectDeployment(cmd.Context(), notFound.Suggestions,
					fmt.Sprintf("%s not found on %s, verify instead", notFound.Contract, notFound.Network))
				if selectErr != nil {
					return err
				}
				params.ContractName = picked
				result, err = app.VerifyDeployment.Run(cmd.Context(), params)
			}
			if err != nil {
				return err
			}

			if result.Error != nil {
				return result.Error
			}
			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.DeploymentViews([]*models.Deployment{result.Deployment}))
			}
			return render.NewVerifyRenderer(cmd.OutOrStdout()).RenderVerifyResult(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-verify even if already verified")

	return cmd
}
