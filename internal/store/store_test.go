package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdock/mcpdock/internal/client"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Load(filepath.Join(t.TempDir(), "nested", "disabled-servers.json"))
	require.NoError(t, err)
	return s
}

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	s := tempStore(t)
	assert.Empty(t, s.Entries())
}

func TestDisableEnableRoundTrip(t *testing.T) {
	s := tempStore(t)
	cfg := StoredConfig{Command: "npx", Args: []string{"-y", "@x/fs"}, Env: map[string]string{"T": "1"}}

	require.NoError(t, s.Disable("fs", client.TypeCursor, nil, cfg))

	got, ok := s.Get("fs", client.TypeCursor, nil)
	require.True(t, ok)
	assert.Equal(t, cfg, got)

	require.NoError(t, s.Enable("fs", client.TypeCursor, nil))
	_, ok = s.Get("fs", client.TypeCursor, nil)
	assert.False(t, ok)
}

func TestDisable_LastWriteWinsPerIdentity(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Disable("fs", client.TypeCursor, nil, StoredConfig{Command: "old"}))
	require.NoError(t, s.Disable("fs", client.TypeCursor, nil, StoredConfig{Command: "new"}))

	entries := s.Entries()
	require.Len(t, entries, 1, "same identity must replace, not duplicate")
	assert.Equal(t, "new", entries[0].Config.Command)
}

func TestDisable_ScopesAreIndependentIdentities(t *testing.T) {
	s := tempStore(t)
	global := client.GlobalScope()
	local := client.LocalScope("/work/app")

	require.NoError(t, s.Disable("fs", client.TypeClaudeCode, &global, StoredConfig{Command: "g"}))
	require.NoError(t, s.Disable("fs", client.TypeClaudeCode, &local, StoredConfig{Command: "l"}))
	require.NoError(t, s.Disable("fs", client.TypeCursor, nil, StoredConfig{Command: "c"}))

	require.Len(t, s.Entries(), 3)

	got, ok := s.Get("fs", client.TypeClaudeCode, &global)
	require.True(t, ok)
	assert.Equal(t, "g", got.Command)

	require.NoError(t, s.Enable("fs", client.TypeClaudeCode, &global))
	_, ok = s.Get("fs", client.TypeClaudeCode, &global)
	assert.False(t, ok)
	_, ok = s.Get("fs", client.TypeClaudeCode, &local)
	assert.True(t, ok, "other scope untouched")
}

func TestEnable_MissingEntryIsNoOp(t *testing.T) {
	s := tempStore(t)
	assert.NoError(t, s.Enable("ghost", client.TypeCursor, nil))
}

func TestAllFor(t *testing.T) {
	s := tempStore(t)
	scope := client.GlobalScope()

	require.NoError(t, s.Disable("fs", client.TypeCursor, nil, StoredConfig{Command: "a"}))
	require.NoError(t, s.Disable("fs", client.TypeClaudeCode, &scope, StoredConfig{Command: "b"}))
	require.NoError(t, s.Disable("db", client.TypeCursor, nil, StoredConfig{Command: "c"}))

	assert.Len(t, s.AllFor("fs"), 2)
	assert.Len(t, s.AllFor("db"), 1)
	assert.Empty(t, s.AllFor("nope"))
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disabled-servers.json")

	s, err := Load(path)
	require.NoError(t, err)
	scope := client.ProjectScope("/work/app")
	require.NoError(t, s.Disable("fs", client.TypeClaudeCode, &scope, StoredConfig{
		Command: "npx", Args: []string{"-y", "@x/fs"},
	}))

	reloaded, err := Load(path)
	require.NoError(t, err)

	got, ok := reloaded.Get("fs", client.TypeClaudeCode, &scope)
	require.True(t, ok)
	assert.Equal(t, "npx", got.Command)
	assert.Equal(t, []string{"-y", "@x/fs"}, got.Args)
}

func TestDocumentFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disabled-servers.json")

	s, err := Load(path)
	require.NoError(t, err)
	scope := client.LocalScope("/p")
	require.NoError(t, s.Disable("fs", client.TypeClaudeCode, &scope, StoredConfig{Command: "npx"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(Version), doc["version"])

	entries := doc["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "fs", entry["serverName"])
	assert.Equal(t, "claude-code", entry["clientType"])
	assert.NotEmpty(t, entry["disabledAt"], "ISO-8601 timestamp present")

	scopeObj := entry["claudeCodeScope"].(map[string]any)
	assert.Equal(t, "local", scopeObj["type"])
	assert.Equal(t, "/p", scopeObj["projectPath"])
}

func TestLoad_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disabled-servers.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConcurrentMutations(t *testing.T) {
	s := tempStore(t)

	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d", "e"}
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_ = s.Disable(name, client.TypeCursor, nil, StoredConfig{Command: name})
		}(name)
	}
	wg.Wait()

	assert.Len(t, s.Entries(), len(names))
}
