package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/errors"
)

var (
	copyFrom string
	copyTo   string
	copyName string
)

func init() {
	copyCmd.Flags().StringVar(&copyFrom, "from", "", "source client (required)")
	copyCmd.Flags().StringVar(&copyTo, "to", "", "destination client (required)")
	copyCmd.Flags().StringVar(&copyName, "name", "", "register under this name on the destination")
	_ = copyCmd.MarkFlagRequired("from")
	_ = copyCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(copyCmd)
}

var copyCmd = &cobra.Command{
	Use:   "copy <name>",
	Short: "Copy a server config between clients",
	Long: `Copy an existing server registration from one client to another,
carrying over its command, arguments, and environment.

Scoped registrations on the source land in the destination's default
location; scope does not carry across clients.

Examples:
  mcpdock copy filesystem --from cursor --to windsurf
  mcpdock copy filesystem --from cursor --to gemini --name fs`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
	name := args[0]

	from, err := parseClientFlag(copyFrom)
	if err != nil {
		return err
	}
	to, err := parseClientFlag(copyTo)
	if err != nil {
		return err
	}
	if from == to {
		return errors.NewUserError(nil, "--from and --to must be different clients")
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	source, ok := findServer(cmd, m, name, from)
	if !ok {
		return errors.Wrapf(errors.ErrServerNotFound, "server %q not installed for %s", name, from)
	}

	target := copyName
	if target == "" {
		target = name
	}

	if err := m.Engine().CopyConfig(source, target, to); err != nil {
		return err
	}
	fmt.Printf("Copied '%s' from %s to %s\n", name, from.DisplayName(), to.DisplayName())
	return nil
}
