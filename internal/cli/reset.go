package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget every deployment recorded on the selected network",
		Long: `Delete deployments/<network>/ for the selected network. The contracts stay
on chain; the next deploy starts from scratch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			// First, collect records to remove (dry run)
			result, err := app.ResetDeployments.Run(cmd.Context(), usecase.ResetDeploymentsParams{DryRun: true})
			if err != nil {
				return err
			}
			if len(result.Removed) == 0 {
				fmt.Fprintf(out, "Nothing to reset. No deployments recorded on %s.\n", result.Network)
				return nil
			}

			fmt.Fprintf(out, "Found %d deployment(s) on %s:\n", len(result.Removed), result.Network)
			for _, dep := range result.Removed {
				fmt.Fprintf(out, "  %s  %s\n", dep.ContractName, dep.Address)
			}
			fmt.Fprintln(out)

			if !yes {
				ok, err := app.Confirmer.Confirm(cmd.Context(), fmt.Sprintf("Reset deployments on %s? This cannot be undone", result.Network))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Reset cancelled.")
					return nil
				}
			}

			result, err = app.ResetDeployments.Run(cmd.Context(), usecase.ResetDeploymentsParams{})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d deployment(s) from %s.\n", len(result.Removed), result.Network)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
