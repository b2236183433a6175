package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdock/mcpdock/internal/client"
)

func TestParseJSONServers(t *testing.T) {
	doc := `{
  "mcpServers": {
    "fs": {"command": "npx", "args": ["-y", "@x/fs"], "env": {"TOKEN": "abc"}},
    "bare": {"command": "uvx"},
    "broken": {"args": ["no", "command"]},
    "junk": 42
  },
  "otherSetting": true
}`

	servers, err := ParseJSONServers([]byte(doc), []string{"mcpServers"})
	require.NoError(t, err)
	require.Len(t, servers, 2, "entries without a command are skipped")

	fs := servers["fs"]
	assert.Equal(t, "npx", fs.Command)
	assert.Equal(t, []string{"-y", "@x/fs"}, fs.Args)
	assert.Equal(t, map[string]string{"TOKEN": "abc"}, fs.Env)

	bare := servers["bare"]
	assert.Equal(t, "uvx", bare.Command)
	assert.Empty(t, bare.Args)
	assert.Nil(t, bare.Env)
}

func TestParseJSONServers_NestedKeyPath(t *testing.T) {
	doc := `{"mcp": {"servers": {"db": {"command": "docker"}}}, "editor.fontSize": 14}`

	servers, err := ParseJSONServers([]byte(doc), []string{"mcp", "servers"})
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "docker", servers["db"].Command)
}

func TestParseJSONServers_MissingPathIsEmpty(t *testing.T) {
	tests := []string{
		`{}`,
		`{"mcp": {}}`,
		`{"mcp": "not an object"}`,
		``,
	}

	for _, doc := range tests {
		servers, err := ParseJSONServers([]byte(doc), []string{"mcp", "servers"})
		require.NoError(t, err, "doc: %s", doc)
		assert.Empty(t, servers)
	}
}

func TestParseJSONServers_InvalidDocument(t *testing.T) {
	_, err := ParseJSONServers([]byte(`[1, 2, 3]`), []string{"mcpServers"})
	assert.Error(t, err)
}

func TestUpsertJSONServer_PreservesUnrelatedKeys(t *testing.T) {
	doc := `{"mcpServers": {"old": {"command": "x"}}, "otherSetting": 42, "theme": "dark"}`

	out, err := UpsertJSONServer([]byte(doc), []string{"mcpServers"}, client.ServerConfig{
		Name:    "fs",
		Command: "npx",
		Args:    []string{"-y", "@x/fs"},
	})
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, float64(42), back["otherSetting"])
	assert.Equal(t, "dark", back["theme"])

	servers := back["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "old")
	assert.Contains(t, servers, "fs")
}

func TestUpsertJSONServer_Idempotent(t *testing.T) {
	cfg := client.ServerConfig{Name: "fs", Command: "npx", Args: []string{"-y", "@x/fs"}}

	once, err := UpsertJSONServer(nil, []string{"mcpServers"}, cfg)
	require.NoError(t, err)
	twice, err := UpsertJSONServer(once, []string{"mcpServers"}, cfg)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestUpsertJSONServer_CorruptDocumentTreatedAsEmpty(t *testing.T) {
	out, err := UpsertJSONServer([]byte(`{{{garbage`), []string{"mcpServers"}, client.ServerConfig{
		Name: "fs", Command: "npx",
	})
	require.NoError(t, err)

	servers, err := ParseJSONServers(out, []string{"mcpServers"})
	require.NoError(t, err)
	assert.Contains(t, servers, "fs")
}

func TestRemoveJSONServer(t *testing.T) {
	doc := `{"mcpServers": {"fs": {"command": "npx"}}, "otherSetting": 42}`

	out, removed, err := RemoveJSONServer([]byte(doc), []string{"mcpServers"}, "fs")
	require.NoError(t, err)
	assert.True(t, removed)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Empty(t, back["mcpServers"], "servers map stays, entry goes")
	assert.Equal(t, float64(42), back["otherSetting"])
}

func TestRemoveJSONServer_Missing(t *testing.T) {
	_, removed, err := RemoveJSONServer([]byte(`{"mcpServers": {}}`), []string{"mcpServers"}, "nope")
	require.NoError(t, err)
	assert.False(t, removed)
}
