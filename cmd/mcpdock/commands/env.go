package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/errors"
)

var envSetClient string

func init() {
	envSetCmd.Flags().StringVarP(&envSetClient, "client", "c", "",
		"target client (required)")
	_ = envSetCmd.MarkFlagRequired("client")
	envCmd.AddCommand(envSetCmd)
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage server environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var envSetCmd = &cobra.Command{
	Use:   "set <name> [KEY=VALUE...]",
	Short: "Replace a server's environment variables",
	Long: `Replace the environment block of an installed server, leaving its
command and arguments untouched. With no KEY=VALUE arguments the block is
removed entirely.

Examples:
  mcpdock env set github --client cursor GITHUB_TOKEN=ghp_xxx
  mcpdock env set github --client cursor`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnvSet,
}

func runEnvSet(_ *cobra.Command, args []string) error {
	name := args[0]

	t, err := parseClientFlag(envSetClient)
	if err != nil {
		return err
	}

	env, err := parseKeyValueSlice(args[1:], "env")
	if err != nil {
		return errors.NewUserError(err, "pass variables as KEY=VALUE")
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	if err := m.Engine().UpdateEnv(name, t, env); err != nil {
		return err
	}

	if len(env) == 0 {
		fmt.Printf("Cleared env for '%s' on %s\n", name, t.DisplayName())
	} else {
		fmt.Printf("Updated %d env var(s) for '%s' on %s\n", len(env), name, t.DisplayName())
	}
	return nil
}
