package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/unify"
)

var (
	listJSON        bool
	listShowSecrets bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listShowSecrets, "show-secrets", false, "Reveal masked secrets in env values")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all MCP servers across clients",
	Long: `List every MCP server registered with any client, one row per logical
server name, with the clients and scopes it is registered under.

Disabled registrations are shown dimmed. Environment variables containing
secrets (TOKEN, KEY, SECRET, PASSWORD, AUTH, CREDENTIAL, API_KEY) are
masked by default; use --show-secrets to reveal them.

Examples:
  # Unified view of all servers
  mcpdock list

  # Output as JSON
  mcpdock list --json`,
	RunE: runList,
}

// listServerJSON represents one unified server in JSON output.
type listServerJSON struct {
	Name            string                      `json:"name"`
	Clients         map[string]listRegistration `json:"clients,omitempty"`
	Scopes          map[string]listRegistration `json:"scopes,omitempty"`
	DisabledClients []string                    `json:"disabledClients,omitempty"`
	DisabledScopes  []string                    `json:"disabledScopes,omitempty"`
}

// listRegistration is one live registration in JSON output.
type listRegistration struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(cmd, os.Stdout)
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(cmd *cobra.Command, w io.Writer) error {
	m, err := newManager()
	if err != nil {
		return err
	}
	servers := m.Servers(cmd.Context())

	if listJSON {
		return outputListJSON(w, servers)
	}
	return outputListTabular(w, servers)
}

func outputListJSON(w io.Writer, servers []*unify.Server) error {
	out := make([]listServerJSON, 0, len(servers))
	for _, s := range servers {
		entry := listServerJSON{Name: s.Name}

		if len(s.PerClient) > 0 {
			entry.Clients = make(map[string]listRegistration, len(s.PerClient))
			for t, cfg := range s.PerClient {
				entry.Clients[string(t)] = listRegistration{
					Command: cfg.Command,
					Args:    cfg.Args,
					Env:     maskSecrets(cfg.Env, listShowSecrets),
				}
			}
		}
		if len(s.Scoped) > 0 {
			entry.Scopes = make(map[string]listRegistration, len(s.Scoped))
			for id, cfg := range s.Scoped {
				entry.Scopes[id] = listRegistration{
					Command: cfg.Command,
					Args:    cfg.Args,
					Env:     maskSecrets(cfg.Env, listShowSecrets),
				}
			}
		}
		entry.DisabledClients = sortedClientNames(s.DisabledClients)
		entry.DisabledScopes = sortedKeys(s.DisabledScopes)

		out = append(out, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputListTabular(w io.Writer, servers []*unify.Server) error {
	if len(servers) == 0 {
		fmt.Fprintln(w, "No MCP servers configured")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sCOMMAND%s\t%sCLIENTS%s\t%sDISABLED%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, s := range servers {
		var where []string
		for _, t := range sortedClientNames(mapKeysToBool(s.PerClient)) {
			where = append(where, t)
		}
		for _, id := range sortedScopeIDs(s.Scoped) {
			where = append(where, "claude-code/"+id)
		}

		var disabled []string
		disabled = append(disabled, sortedClientNames(s.DisabledClients)...)
		for _, id := range sortedKeys(s.DisabledScopes) {
			disabled = append(disabled, "claude-code/"+id)
		}

		disabledCol := colorGray + "-" + colorReset
		if len(disabled) > 0 {
			disabledCol = colorYellow + strings.Join(disabled, ", ") + colorReset
		}

		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s\n",
			colorGreen, s.Name, colorReset,
			truncate(anyCommand(s), 40),
			strings.Join(where, ", "),
			disabledCol)
	}
	return tw.Flush()
}

// anyCommand picks a representative command for the tabular view.
func anyCommand(s *unify.Server) string {
	for _, t := range sortedClientNames(mapKeysToBool(s.PerClient)) {
		return s.PerClient[client.Type(t)].Command
	}
	for _, id := range sortedScopeIDs(s.Scoped) {
		return s.Scoped[id].Command
	}
	return ""
}

func sortedClientNames(set map[client.Type]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, string(t))
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedScopeIDs(m map[string]client.ServerConfig) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func mapKeysToBool(m map[client.Type]client.ServerConfig) map[client.Type]bool {
	out := make(map[client.Type]bool, len(m))
	for t := range m {
		out[t] = true
	}
	return out
}
