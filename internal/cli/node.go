package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewNodeCmd creates the node command with subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local anvil node",
		Long:  `Manage a local anvil node backing a development network (localhost by default).`,
	}

	cmd.AddCommand(newNodeOpCmd("start", "Start the local node", "Start a local anvil node in the background. Fails if already running."))
	cmd.AddCommand(newNodeOpCmd("stop", "Stop the local node", "Stop the local anvil node if running."))
	cmd.AddCommand(newNodeOpCmd("restart", "Restart the local node", "Stop the local anvil node if running and start it again."))
	cmd.AddCommand(newNodeOpCmd("status", "Show local node status", "Show whether the local node is running and answering RPC."))
	cmd.AddCommand(newNodeOpCmd("logs", "Follow local node logs", "Stream the local node log until interrupted."))

	return cmd
}

// nodeFlags holds common flags for node commands
type nodeFlags struct {
	name    string
	port    string
	chainID uint64
}

func newNodeOpCmd(operation, short, long string) *cobra.Command {
	flags := &nodeFlags{}

	cmd := &cobra.Command{
		Use:   operation,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeCommand(cmd, operation, flags)
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "localhost", "Network the node backs")
	cmd.Flags().StringVar(&flags.port, "port", "", "RPC port to bind (default from the network url)")
	cmd.Flags().Uint64Var(&flags.chainID, "chain-id", 0, "Chain ID (default from the network config)")
	return cmd
}

// runNodeCommand executes a node management command
func runNodeCommand(cmd *cobra.Command, operation string, flags *nodeFlags) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	params := usecase.ManageNodeParams{
		Operation: operation,
		Name:      flags.name,
		Port:      flags.port,
		ChainID:   flags.chainID,
	}
	renderer := render.NewNodeRenderer(cmd.OutOrStdout())

	if operation == "logs" {
		instance := app.ManageNode.Instance(params)
		renderer.RenderLogsHeader(instance.Name)
		return app.ManageNode.StreamLogs(cmd.Context(), params, cmd.OutOrStdout())
	}

	result, err := app.ManageNode.Execute(cmd.Context(), params)
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.RenderJSON(cmd.OutOrStdout(), result)
	}
	return renderer.Render(result)
}

