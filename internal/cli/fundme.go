package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewFundCmd creates the fund command
func NewFundCmd() *cobra.Command {
	var (
		amount string
		from   string
	)

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Send ETH to the deployed FundMe through fund()",
		Long: `Call fund() on the deployed FundMe with the given amount attached.

The call is simulated first. A contribution worth less than the contract's
USD minimum reverts with "You need to spend more ETH!" and nothing is sent.`,
		Example: `  fundme fund --amount 0.1eth
  fundme fund --amount 25000000gwei --from player --network sepolia`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			value, err := domain.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}

			result, err := app.FundContract.Run(cmd.Context(), usecase.FundParams{
				From:   from,
				Amount: value,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewFundMeRenderer(cmd.OutOrStdout()).RenderFund(result)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "1eth", "Amount to send (e.g. 0.1eth, 25gwei, 1000wei)")
	cmd.Flags().StringVar(&from, "from", usecase.DeployerAccount, "Named account to fund from")

	return cmd
}

// NewWithdrawCmd creates the withdraw command
func NewWithdrawCmd() *cobra.Command {
	var (
		cheaper bool
		from    string
	)

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw the FundMe balance to the owner",
		Long: `Call withdraw() (or cheaperWithdraw() with --cheaper) on the deployed FundMe.

Only the owner may withdraw; any other account fails with "not owner" and
nothing is sent. Funder balances are reset and the funders list is cleared.`,
		Example: `  fundme withdraw
  fundme withdraw --cheaper --network sepolia`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.WithdrawFunds.Run(cmd.Context(), usecase.WithdrawParams{
				From:    from,
				Cheaper: cheaper,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewFundMeRenderer(cmd.OutOrStdout()).RenderWithdraw(result)
		},
	}

	cmd.Flags().BoolVar(&cheaper, "cheaper", false, "Use cheaperWithdraw()")
	cmd.Flags().StringVar(&from, "from", usecase.DeployerAccount, "Named account to withdraw as")

	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the state of the deployed FundMe",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			state, err := app.InspectFundMe.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), state)
			}
			return render.NewFundMeRenderer(cmd.OutOrStdout()).RenderState(state)
		},
	}
}
