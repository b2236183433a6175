package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	enableClient  string
	enableScope   string
	enableProject string
)

func init() {
	enableCmd.Flags().StringVarP(&enableClient, "client", "c", "",
		"target client (required)")
	enableCmd.Flags().StringVar(&enableScope, "scope", "",
		"claude-code scope: global, local, project")
	enableCmd.Flags().StringVar(&enableProject, "project", "",
		"project path for local/project scope")
	_ = enableCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(enableCmd)
}

var enableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Restore a disabled server",
	Long: `Restore a server disabled with 'mcpdock disable', writing its original
command, arguments, and environment back into the client's config and
removing it from the disabled store.

Enabling a server that was never disabled is a no-op.

Examples:
  mcpdock enable filesystem --client cursor`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

func runEnable(cmd *cobra.Command, args []string) error {
	name := args[0]

	t, err := parseClientFlag(enableClient)
	if err != nil {
		return err
	}
	scope, err := parseScopeFlags(t, enableScope, enableProject)
	if err != nil {
		return err
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	if err := m.Enable(cmd.Context(), name, t, scope); err != nil {
		return err
	}
	fmt.Printf("Enabled '%s' on %s\n", name, t.DisplayName())
	return nil
}
