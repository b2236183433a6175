package commands

import (
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/catalog"
	"github.com/mcpdock/mcpdock/internal/errors"
)

// Package-level flag variables for the install command.
var (
	installClient  string
	installEnv     []string
	installName    string
	installScope   string
	installProject string
)

func init() {
	installCmd.Flags().StringVarP(&installClient, "client", "c", "",
		"target client (required): claude-desktop, claude-code, cursor, windsurf, vscode, gemini, codex")
	installCmd.Flags().StringSliceVar(&installEnv, "env", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	installCmd.Flags().StringVar(&installName, "name", "",
		"register under this name instead of the catalog name")
	installCmd.Flags().StringVar(&installScope, "scope", "",
		"claude-code scope: global, local, project")
	installCmd.Flags().StringVar(&installProject, "project", "",
		"project path for local/project scope")
	_ = installCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install [server]",
	Short: "Install a catalog server into a client",
	Long: `Install an MCP server from the catalog into a client's config.

The launch command is derived from the server's primary distribution
package: npm packages run through npx, PyPI through uvx, container images
through docker, and app bundles through the OS opener.

With no server argument, an interactive fuzzy finder opens over the full
catalog.

Examples:
  # Install into Cursor
  mcpdock install filesystem --client cursor

  # Pick interactively
  mcpdock install --client claude-desktop

  # Claude Code project scope
  mcpdock install filesystem --client claude-code \
    --scope project --project ~/work/app

  # With environment variables
  mcpdock install github --client cursor --env GITHUB_TOKEN=ghp_xxx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	t, err := parseClientFlag(installClient)
	if err != nil {
		return err
	}

	scope, err := parseScopeFlags(t, installScope, installProject)
	if err != nil {
		return err
	}

	env, err := parseKeyValueSlice(installEnv, "--env")
	if err != nil {
		return err
	}

	cat := newCatalogClient()
	servers, err := cat.FetchAll(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "fetching server catalog")
	}

	var srv catalog.Server
	if len(args) == 1 {
		srv, err = findCatalogServer(servers, args[0])
	} else {
		srv, err = pickCatalogServer(servers)
	}
	if err != nil {
		return err
	}
	if srv.Name == "" {
		// Interactive pick aborted.
		return nil
	}

	name := installName
	if name == "" {
		name = srv.Name
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	fmt.Printf("Installing '%s' to %s... ", name, t.DisplayName())
	if err := m.Engine().Install(srv, t, name, env, scope); err != nil {
		fmt.Println("failed")
		return err
	}
	fmt.Println("done")
	return nil
}

// findCatalogServer resolves a server by exact name, falling back to a
// unique case-insensitive substring match.
func findCatalogServer(servers []catalog.Server, query string) (catalog.Server, error) {
	for _, s := range servers {
		if s.Name == query {
			return s, nil
		}
	}

	lower := strings.ToLower(query)
	var matches []catalog.Server
	for _, s := range servers {
		if strings.Contains(strings.ToLower(s.Name), lower) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return catalog.Server{}, errors.NewUserError(
			errors.Newf("no catalog server matches %q", query),
			"run 'mcpdock catalog search' to browse the catalog")
	}

	names := make([]string, len(matches))
	for i, s := range matches {
		names[i] = s.Name
	}
	return catalog.Server{}, errors.NewUserError(
		errors.Newf("%q is ambiguous: %s", query, strings.Join(names, ", ")),
		"use the full server name")
}

// pickCatalogServer opens a fuzzy finder over the catalog. An aborted pick
// returns a zero Server with no error.
func pickCatalogServer(servers []catalog.Server) (catalog.Server, error) {
	if len(servers) == 0 {
		return catalog.Server{}, errors.New("catalog is empty")
	}

	idx, err := fuzzyfinder.Find(
		servers,
		func(i int) string {
			return servers[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			s := servers[i]
			pkg, ok := s.PrimaryPackage()
			pkgLine := "(no packages)"
			if ok {
				pkgLine = fmt.Sprintf("%s: %s", pkg.Kind, pkg.Identifier)
			}
			return fmt.Sprintf("Name: %s\nVersion: %s\nRepo: %s\nPackage: %s",
				s.Name, s.Version, s.RepositoryURL, pkgLine)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return catalog.Server{}, nil
		}
		return catalog.Server{}, errors.Wrap(err, "interactive selection failed")
	}
	return servers[idx], nil
}
