package unify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/store"
)

func flatClient(t client.Type, names ...string) *client.Client {
	servers := make(map[string]client.ServerConfig, len(names))
	for _, n := range names {
		servers[n] = client.ServerConfig{Name: n, Command: "npx"}
	}
	return &client.Client{Type: t, Installed: true, Servers: servers}
}

func TestUnify_MergesAcrossClients(t *testing.T) {
	clients := []*client.Client{
		flatClient(client.TypeCursor, "fs", "db"),
		flatClient(client.TypeWindsurf, "fs"),
	}

	servers := Unify(clients, nil)
	require.Len(t, servers, 2)

	assert.Equal(t, "db", servers[0].Name)
	assert.Equal(t, "fs", servers[1].Name)

	fs := servers[1]
	assert.Contains(t, fs.PerClient, client.TypeCursor)
	assert.Contains(t, fs.PerClient, client.TypeWindsurf)
	assert.True(t, fs.Enabled())
}

func TestUnify_ScopedKeysDecompose(t *testing.T) {
	global := client.GlobalScope()
	local := client.LocalScope("/w/app")

	cc := &client.Client{
		Type:      client.TypeClaudeCode,
		Installed: true,
		Servers: map[string]client.ServerConfig{
			client.CompositeKey("fs", global): {Name: "fs", Command: "g", Scope: &global},
			client.CompositeKey("fs", local):  {Name: "fs", Command: "l", Scope: &local},
		},
	}

	servers := Unify([]*client.Client{cc}, nil)
	require.Len(t, servers, 1)

	fs := servers[0]
	assert.Empty(t, fs.PerClient, "scoped entries never land in the flat map")
	require.Len(t, fs.Scoped, 2)
	assert.Equal(t, "g", fs.Scoped[global.ID()].Command)
	assert.Equal(t, "l", fs.Scoped[local.ID()].Command)
}

func TestUnify_DisabledEntryCreatesStub(t *testing.T) {
	disabled := []store.Entry{{
		ServerName: "gone",
		ClientType: client.TypeCursor,
		Config:     store.StoredConfig{Command: "npx"},
		DisabledAt: time.Now(),
	}}

	servers := Unify(nil, disabled)
	require.Len(t, servers, 1)

	gone := servers[0]
	assert.Equal(t, "gone", gone.Name)
	assert.True(t, gone.DisabledClients[client.TypeCursor])
	assert.Empty(t, gone.PerClient, "stored config is not merged into the live view")
	assert.False(t, gone.Enabled())
}

func TestUnify_DisabledScope(t *testing.T) {
	scope := client.LocalScope("/w/app")
	disabled := []store.Entry{{
		ServerName: "fs",
		ClientType: client.TypeClaudeCode,
		Scope:      &scope,
		Config:     store.StoredConfig{Command: "npx"},
	}}

	servers := Unify([]*client.Client{flatClient(client.TypeCursor, "fs")}, disabled)
	require.Len(t, servers, 1)

	fs := servers[0]
	assert.True(t, fs.DisabledScopes[scope.ID()])
	assert.Empty(t, fs.DisabledClients)
	assert.True(t, fs.Enabled(), "live cursor entry keeps the server enabled")
}

func TestUnify_SortsCaseInsensitively(t *testing.T) {
	clients := []*client.Client{
		flatClient(client.TypeCursor, "Zeta", "alpha", "Beta"),
	}

	servers := Unify(clients, nil)
	names := make([]string, len(servers))
	for i, s := range servers {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"alpha", "Beta", "Zeta"}, names)
}

func TestUnify_NilClientSkipped(t *testing.T) {
	servers := Unify([]*client.Client{nil, flatClient(client.TypeGemini, "fs")}, nil)
	require.Len(t, servers, 1)
	assert.Contains(t, servers[0].PerClient, client.TypeGemini)
}
