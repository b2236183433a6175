package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/backup"
	"github.com/mcpdock/mcpdock/internal/catalog"
	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/discovery"
	"github.com/mcpdock/mcpdock/internal/engine"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/github"
	"github.com/mcpdock/mcpdock/internal/manager"
	"github.com/mcpdock/mcpdock/internal/paths"
	"github.com/mcpdock/mcpdock/internal/store"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// newManager wires discovery, the mutation engine, and the disabled store
// into a Manager using the loaded app config.
func newManager() (*manager.Manager, error) {
	disc, err := discovery.New()
	if err != nil {
		return nil, err
	}

	engineOpts := []engine.Option{}
	if appConfig == nil || appConfig.Backups.Enabled {
		retention := backup.DefaultRetentionCount
		if appConfig != nil && appConfig.Backups.Retention > 0 {
			retention = appConfig.Backups.Retention
		}
		bm := backup.NewManager(backup.WithRetentionCount(retention))
		engineOpts = append(engineOpts, engine.WithSnapshot(bm.Snapshot))
	}

	eng, err := engine.New(engineOpts...)
	if err != nil {
		return nil, err
	}

	st, err := store.Load(paths.DisabledStorePath())
	if err != nil {
		return nil, err
	}

	return manager.New(disc, eng, st), nil
}

// newCatalogClient builds the catalog client from the configured URL.
func newCatalogClient() *catalog.Client {
	url := catalog.DefaultBaseURL
	if appConfig != nil && appConfig.Catalog.URL != "" {
		url = appConfig.Catalog.URL
	}
	return catalog.NewClient(url)
}

// newGitHubClient builds the optional metadata enrichment client.
func newGitHubClient() *github.Client {
	return github.NewClient()
}

// findServer looks up a server's live config on one client by logical
// name. Scoped registrations match too, global scope winning ties.
func findServer(cmd *cobra.Command, m *manager.Manager, name string, t client.Type) (client.ServerConfig, bool) {
	for _, c := range m.Refresh(cmd.Context()) {
		if c.Type != t {
			continue
		}
		if cfg, ok := c.Servers[name]; ok {
			return cfg, true
		}
		if cfg, ok := c.Servers[client.CompositeKey(name, client.GlobalScope())]; ok {
			return cfg, true
		}
		for key, cfg := range c.Servers {
			if n, scope := client.SplitCompositeKey(key); scope != nil && n == name {
				return cfg, true
			}
		}
	}
	return client.ServerConfig{}, false
}

// parseClientFlag validates a --client flag value.
func parseClientFlag(value string) (client.Type, error) {
	t := client.Type(strings.ToLower(strings.TrimSpace(value)))
	if !t.Valid() {
		names := make([]string, 0, len(client.Types()))
		for _, ct := range client.Types() {
			names = append(names, string(ct))
		}
		err := errors.Newf("unknown client %q (valid: %s)", value, strings.Join(names, ", "))
		return "", errors.NewUserError(err, "run 'mcpdock clients' to see detected clients")
	}
	return t, nil
}

// parseScopeFlags turns --scope/--project flags into an optional Scope.
// An empty scope string means no scope (the client's default location).
// Scope flags are only valid for clients that support scopes.
func parseScopeFlags(t client.Type, scope, project string) (*client.Scope, error) {
	if scope != "" || project != "" {
		if spec, err := client.SpecFor(t); err == nil && !spec.SupportsScopes {
			err := errors.Newf("client %s does not support scopes", t)
			return nil, errors.NewUserError(err, "omit --scope and --project, or use --client claude-code")
		}
	}
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case "":
		if project != "" {
			return nil, errors.NewUserError(nil, "--project requires --scope local or --scope project")
		}
		return nil, nil
	case "global":
		if project != "" {
			return nil, errors.NewUserError(nil, "--project is not valid with --scope global")
		}
		s := client.GlobalScope()
		return &s, nil
	case "local":
		if project == "" {
			return nil, errors.NewUserError(nil, "--scope local requires --project <path>")
		}
		s := client.LocalScope(project)
		return &s, nil
	case "project":
		if project == "" {
			return nil, errors.NewUserError(nil, "--scope project requires --project <path>")
		}
		s := client.ProjectScope(project)
		return &s, nil
	}
	return nil, errors.NewUserError(
		errors.Newf("invalid --scope %q", scope),
		"valid scopes: global, local, project")
}

// parseKeyValueSlice parses a slice of KEY=VALUE strings into a map.
// Returns an error if any entry is malformed.
func parseKeyValueSlice(entries []string, flagName string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, errors.Newf("invalid %s format %q: expected KEY=VALUE", flagName, entry)
		}
		result[key] = value
	}
	return result, nil
}

// secretKeyPatterns contains substrings that indicate a key likely contains a secret.
var secretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"API_KEY",
}

// maskSecrets masks secret values in environment variables.
// If showSecrets is true, returns the original map unchanged.
// Secret detection is based on key names containing common secret indicators.
func maskSecrets(env map[string]string, showSecrets bool) map[string]string {
	if env == nil {
		return nil
	}
	if showSecrets {
		return env
	}

	masked := make(map[string]string, len(env))
	for k, v := range env {
		upper := strings.ToUpper(k)
		isSecret := false
		for _, pattern := range secretKeyPatterns {
			if strings.Contains(upper, pattern) {
				isSecret = true
				break
			}
		}
		if isSecret && len(v) > 4 {
			masked[k] = "****" + v[len(v)-4:]
		} else if isSecret {
			masked[k] = "********"
		} else {
			masked[k] = v
		}
	}
	return masked
}
