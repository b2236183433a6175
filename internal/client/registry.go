package client

import (
	"os"
	"path/filepath"

	"github.com/mcpdock/mcpdock/internal/errors"
)

// Spec describes the static filesystem and format conventions of a client type.
// Specs are immutable, compile-time data; all behavior lives in the layers above.
type Spec struct {
	// Type is the client this spec describes.
	Type Type

	// DisplayName is the human-readable application name.
	DisplayName string

	// ConfigPaths lists candidate config file locations relative to the
	// user's home directory, in resolution order. The first existing path
	// wins; if none exist, the first candidate is the path to create.
	ConfigPaths []string

	// ServersKeyPath is the key path into the JSON document that locates
	// the servers map (e.g. ["mcpServers"] or ["mcp", "servers"]).
	// Empty for the TOML client.
	ServersKeyPath []string

	// TOML is true if the client's config document is TOML with
	// [mcp_servers.<name>] sections rather than JSON.
	TOML bool

	// SupportsScopes is true if the client stores the same logical server
	// name in up to three independent scopes (global, local, project).
	SupportsScopes bool

	// AppBundles lists application bundle directories whose existence
	// marks the client as installed. Paths starting with "/" are absolute;
	// all others are relative to the user's home directory.
	AppBundles []string

	// Commands lists executable names resolvable via PATH that mark the
	// client as installed.
	Commands []string

	// ConfigEvidence is true if the client also counts as installed when
	// its config file exists and shows positive evidence of prior use
	// (an install-method marker or a positive launch counter).
	ConfigEvidence bool
}

// specs is the static catalog of supported clients.
var specs = map[Type]Spec{
	TypeClaudeDesktop: {
		Type:        TypeClaudeDesktop,
		DisplayName: "Claude Desktop",
		ConfigPaths: []string{
			"Library/Application Support/Claude/claude_desktop_config.json",
			".config/Claude/claude_desktop_config.json",
		},
		ServersKeyPath: []string{"mcpServers"},
		AppBundles:     []string{"/Applications/Claude.app", "Applications/Claude.app"},
	},
	TypeClaudeCode: {
		Type:           TypeClaudeCode,
		DisplayName:    "Claude Code",
		ConfigPaths:    []string{".claude.json"},
		ServersKeyPath: []string{"mcpServers"},
		SupportsScopes: true,
		Commands:       []string{"claude"},
		ConfigEvidence: true,
	},
	TypeCursor: {
		Type:           TypeCursor,
		DisplayName:    "Cursor",
		ConfigPaths:    []string{".cursor/mcp.json"},
		ServersKeyPath: []string{"mcpServers"},
		AppBundles:     []string{"/Applications/Cursor.app", "Applications/Cursor.app"},
		Commands:       []string{"cursor"},
	},
	TypeWindsurf: {
		Type:           TypeWindsurf,
		DisplayName:    "Windsurf",
		ConfigPaths:    []string{".codeium/windsurf/mcp_config.json"},
		ServersKeyPath: []string{"mcpServers"},
		AppBundles:     []string{"/Applications/Windsurf.app", "Applications/Windsurf.app"},
	},
	TypeVSCode: {
		Type:        TypeVSCode,
		DisplayName: "Visual Studio Code",
		ConfigPaths: []string{
			"Library/Application Support/Code/User/settings.json",
			".config/Code/User/settings.json",
		},
		ServersKeyPath: []string{"mcp", "servers"},
		AppBundles:     []string{"/Applications/Visual Studio Code.app"},
		Commands:       []string{"code"},
	},
	TypeGemini: {
		Type:           TypeGemini,
		DisplayName:    "Gemini CLI",
		ConfigPaths:    []string{".gemini/settings.json"},
		ServersKeyPath: []string{"mcpServers"},
		Commands:       []string{"gemini"},
	},
	TypeCodex: {
		Type:        TypeCodex,
		DisplayName: "Codex CLI",
		ConfigPaths: []string{".codex/config.toml"},
		TOML:        true,
		Commands:    []string{"codex"},
	},
}

// SpecFor returns the static spec for a client type.
// Returns ErrNoConfigPath for unknown types.
func SpecFor(t Type) (Spec, error) {
	spec, ok := specs[t]
	if !ok {
		return Spec{}, errors.Wrapf(errors.ErrNoConfigPath, "unknown client type %q", t)
	}
	return spec, nil
}

// AllSpecs returns the specs for every supported client type in
// deterministic order.
func AllSpecs() []Spec {
	types := Types()
	out := make([]Spec, 0, len(types))
	for _, t := range types {
		out = append(out, specs[t])
	}
	return out
}

// ResolveConfigPath returns the absolute config path for the client under
// the given home directory: the first existing candidate, or the first
// candidate if none exist yet.
func (s Spec) ResolveConfigPath(home string) (string, error) {
	if len(s.ConfigPaths) == 0 {
		return "", errors.Wrapf(errors.ErrNoConfigPath, "client %s has no config candidates", s.Type)
	}
	for _, rel := range s.ConfigPaths {
		abs := filepath.Join(home, rel)
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
	}
	return filepath.Join(home, s.ConfigPaths[0]), nil
}
