package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	disableClient  string
	disableScope   string
	disableProject string
)

func init() {
	disableCmd.Flags().StringVarP(&disableClient, "client", "c", "",
		"target client (required)")
	disableCmd.Flags().StringVar(&disableScope, "scope", "",
		"claude-code scope: global, local, project")
	disableCmd.Flags().StringVar(&disableProject, "project", "",
		"project path for local/project scope")
	_ = disableCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(disableCmd)
}

var disableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a server, keeping its config restorable",
	Long: `Remove a server from a client's config and park its command, arguments,
and environment in the disabled store. 'mcpdock enable' restores it
exactly as it was.

Examples:
  mcpdock disable filesystem --client cursor
  mcpdock disable filesystem --client claude-code --scope local --project ~/work/app`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func runDisable(cmd *cobra.Command, args []string) error {
	name := args[0]

	t, err := parseClientFlag(disableClient)
	if err != nil {
		return err
	}
	scope, err := parseScopeFlags(t, disableScope, disableProject)
	if err != nil {
		return err
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	if err := m.Disable(cmd.Context(), name, t, scope); err != nil {
		return err
	}
	fmt.Printf("Disabled '%s' on %s\n", name, t.DisplayName())
	return nil
}
