package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	uninstallClient  string
	uninstallScope   string
	uninstallProject string
)

func init() {
	uninstallCmd.Flags().StringVarP(&uninstallClient, "client", "c", "",
		"target client (required)")
	uninstallCmd.Flags().StringVar(&uninstallScope, "scope", "",
		"claude-code scope: global, local, project")
	uninstallCmd.Flags().StringVar(&uninstallProject, "project", "",
		"project path for local/project scope")
	_ = uninstallCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(uninstallCmd)
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove a server from a client's config",
	Long: `Remove a server entry from a client's config file, leaving every other
setting in the file untouched.

This deletes the entry permanently. Use 'mcpdock disable' instead to park
the config so it can be restored later.

Examples:
  mcpdock uninstall filesystem --client cursor
  mcpdock uninstall filesystem --client claude-code --scope global`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func runUninstall(_ *cobra.Command, args []string) error {
	name := args[0]

	t, err := parseClientFlag(uninstallClient)
	if err != nil {
		return err
	}
	scope, err := parseScopeFlags(t, uninstallScope, uninstallProject)
	if err != nil {
		return err
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	if err := m.Engine().Uninstall(name, t, scope); err != nil {
		return err
	}
	fmt.Printf("Removed '%s' from %s\n", name, t.DisplayName())
	return nil
}
