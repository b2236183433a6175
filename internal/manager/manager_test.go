package manager

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdock/mcpdock/internal/catalog"
	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/discovery"
	"github.com/mcpdock/mcpdock/internal/engine"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/store"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	home := t.TempDir()

	disc, err := discovery.New(
		discovery.WithHome(home),
		discovery.WithLookPath(func(string) (string, error) {
			return "", errors.New("not found")
		}),
	)
	require.NoError(t, err)

	eng, err := engine.New(engine.WithHome(home))
	require.NoError(t, err)

	st, err := store.Load(filepath.Join(t.TempDir(), "disabled-servers.json"))
	require.NoError(t, err)

	return New(disc, eng, st), home
}

func writeCursorConfig(t *testing.T, home, content string) string {
	t.Helper()
	path := filepath.Join(home, ".cursor", "mcp.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDisableEnable_RoundTrip(t *testing.T) {
	m, home := newTestManager(t)
	ctx := context.Background()

	path := writeCursorConfig(t, home,
		`{"mcpServers": {"fs": {"command": "npx", "args": ["-y", "@x/fs"], "env": {"K": "v"}}}}`)

	require.NoError(t, m.Disable(ctx, "fs", client.TypeCursor, nil))

	// Gone from the live config.
	c := m.disc.Discover(ctx, client.TypeCursor)
	assert.NotContains(t, c.Servers, "fs")

	// Present in the store with the original config.
	cfg, ok := m.Store().Get("fs", client.TypeCursor, nil)
	require.True(t, ok)
	assert.Equal(t, "npx", cfg.Command)
	assert.Equal(t, []string{"-y", "@x/fs"}, cfg.Args)
	assert.Equal(t, map[string]string{"K": "v"}, cfg.Env)

	require.NoError(t, m.Enable(ctx, "fs", client.TypeCursor, nil))

	// Restored identically and the store entry is gone.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	entry := doc["mcpServers"].(map[string]any)["fs"].(map[string]any)
	assert.Equal(t, "npx", entry["command"])
	assert.Equal(t, []any{"-y", "@x/fs"}, entry["args"])
	assert.Equal(t, map[string]any{"K": "v"}, entry["env"])

	_, ok = m.Store().Get("fs", client.TypeCursor, nil)
	assert.False(t, ok)
}

func TestDisable_NotInstalled(t *testing.T) {
	m, home := newTestManager(t)
	writeCursorConfig(t, home, `{"mcpServers": {}}`)

	err := m.Disable(context.Background(), "fs", client.TypeCursor, nil)
	assert.True(t, errors.Is(err, errors.ErrServerNotFound))
	assert.Empty(t, m.Store().Entries())
}

func TestDisable_ScopedServer(t *testing.T) {
	m, home := newTestManager(t)
	ctx := context.Background()

	path := filepath.Join(home, ".claude.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"mcpServers": {"fs": {"command": "global-fs"}}}`), 0o600))

	scope := client.GlobalScope()
	require.NoError(t, m.Disable(ctx, "fs", client.TypeClaudeCode, &scope))

	cfg, ok := m.Store().Get("fs", client.TypeClaudeCode, &scope)
	require.True(t, ok)
	assert.Equal(t, "global-fs", cfg.Command)

	require.NoError(t, m.Enable(ctx, "fs", client.TypeClaudeCode, &scope))

	c := m.disc.Discover(ctx, client.TypeClaudeCode)
	assert.Contains(t, c.Servers, client.CompositeKey("fs", scope))
}

func TestDisable_ScopeCapableNilScopeDefaultsToGlobal(t *testing.T) {
	m, home := newTestManager(t)
	ctx := context.Background()

	path := filepath.Join(home, ".claude.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"mcpServers": {"fs": {"command": "npx"}}}`), 0o600))

	require.NoError(t, m.Disable(ctx, "fs", client.TypeClaudeCode, nil))

	c := m.disc.Discover(ctx, client.TypeClaudeCode)
	assert.NotContains(t, c.Servers, client.CompositeKey("fs", client.GlobalScope()))

	cfg, ok := m.Store().Get("fs", client.TypeClaudeCode, nil)
	require.True(t, ok)
	assert.Equal(t, "npx", cfg.Command)

	require.NoError(t, m.Enable(ctx, "fs", client.TypeClaudeCode, nil))

	c = m.disc.Discover(ctx, client.TypeClaudeCode)
	assert.Contains(t, c.Servers, client.CompositeKey("fs", client.GlobalScope()))
}

func TestEnable_NoEntryIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.Enable(context.Background(), "ghost", client.TypeCursor, nil))
}

func TestServers_UnifiedView(t *testing.T) {
	m, home := newTestManager(t)
	ctx := context.Background()

	writeCursorConfig(t, home,
		`{"mcpServers": {"fs": {"command": "npx"}, "db": {"command": "docker"}}}`)

	require.NoError(t, m.Disable(ctx, "db", client.TypeCursor, nil))

	servers := m.Servers(ctx)
	require.Len(t, servers, 2)

	assert.Equal(t, "db", servers[0].Name)
	assert.True(t, servers[0].DisabledClients[client.TypeCursor])
	assert.False(t, servers[0].Enabled())

	assert.Equal(t, "fs", servers[1].Name)
	assert.Contains(t, servers[1].PerClient, client.TypeCursor)
}

func TestClients_CachesUntilRefresh(t *testing.T) {
	m, home := newTestManager(t)
	ctx := context.Background()

	writeCursorConfig(t, home, `{"mcpServers": {}}`)
	first := m.Clients(ctx)
	require.NotEmpty(t, first)

	writeCursorConfig(t, home, `{"mcpServers": {"fs": {"command": "npx"}}}`)
	cached := m.Clients(ctx)
	assert.Equal(t, first, cached)

	refreshed := m.Refresh(ctx)
	for _, c := range refreshed {
		if c.Type == client.TypeCursor {
			assert.Contains(t, c.Servers, "fs")
		}
	}
}

func TestInstallDiscover_RoundTrip_AllClients(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	srv := catalog.Server{
		Name:     "fs",
		Packages: []catalog.Package{{Kind: catalog.KindNPM, Identifier: "@x/fs"}},
	}
	env := map[string]string{"TOKEN": "abc"}

	for _, ct := range client.Types() {
		t.Run(string(ct), func(t *testing.T) {
			require.NoError(t, m.Engine().Install(srv, ct, "fs", env, nil))

			c := m.disc.Discover(ctx, ct)
			require.NotNil(t, c)

			key := "fs"
			if ct == client.TypeClaudeCode {
				key = client.CompositeKey("fs", client.GlobalScope())
			}

			got, ok := c.Servers[key]
			require.True(t, ok, "server not discovered under %q", key)
			assert.Equal(t, "npx", got.Command)
			assert.Equal(t, []string{"-y", "@x/fs"}, got.Args)
			assert.Equal(t, env, got.Env)
		})
	}
}
