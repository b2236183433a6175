package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var clientsJSON bool

func init() {
	clientsCmd.Flags().BoolVar(&clientsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(clientsCmd)
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Show detected MCP clients",
	Long: `Show every supported MCP client, whether it is installed, where its
config file lives, and how many servers it has registered.

Examples:
  # Show all clients
  mcpdock clients

  # Output as JSON
  mcpdock clients --json`,
	RunE: runClients,
}

// clientInfoJSON represents one client in JSON output.
type clientInfoJSON struct {
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
	Installed   bool   `json:"installed"`
	ConfigPath  string `json:"configPath,omitempty"`
	ServerCount int    `json:"serverCount"`
}

func runClients(cmd *cobra.Command, _ []string) error {
	return runClientsWithWriter(cmd, os.Stdout)
}

// runClientsWithWriter allows injecting a writer for testing.
func runClientsWithWriter(cmd *cobra.Command, w io.Writer) error {
	m, err := newManager()
	if err != nil {
		return err
	}
	clients := m.Refresh(cmd.Context())

	if clientsJSON {
		out := make([]clientInfoJSON, 0, len(clients))
		for _, c := range clients {
			out = append(out, clientInfoJSON{
				Type:        string(c.Type),
				DisplayName: c.Type.DisplayName(),
				Installed:   c.Installed,
				ConfigPath:  c.ConfigPath,
				ServerCount: len(c.Servers),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sCLIENT%s\t%sINSTALLED%s\t%sSERVERS%s\t%sCONFIG%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, c := range clients {
		installed := colorGray + "no" + colorReset
		if c.Installed {
			installed = colorGreen + "yes" + colorReset
		}
		fmt.Fprintf(tw, "%s%s%s\t%s\t%d\t%s\n",
			colorCyan, c.Type.DisplayName(), colorReset,
			installed,
			len(c.Servers),
			truncate(c.ConfigPath, 60))
	}
	return tw.Flush()
}
