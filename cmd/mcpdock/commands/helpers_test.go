package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpdock/mcpdock/internal/client"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "longer-...", truncate("longer-string", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestParseClientFlag(t *testing.T) {
	got, err := parseClientFlag("cursor")
	require.NoError(t, err)
	assert.Equal(t, client.TypeCursor, got)

	got, err = parseClientFlag("  Claude-Code ")
	require.NoError(t, err)
	assert.Equal(t, client.TypeClaudeCode, got)

	_, err = parseClientFlag("emacs")
	assert.Error(t, err)
}

func TestParseScopeFlags(t *testing.T) {
	scope, err := parseScopeFlags(client.TypeClaudeCode, "", "")
	require.NoError(t, err)
	assert.Nil(t, scope)

	scope, err = parseScopeFlags(client.TypeClaudeCode, "global", "")
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, client.ScopeGlobal, scope.Kind)

	scope, err = parseScopeFlags(client.TypeClaudeCode, "local", "/w/app")
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, client.ScopeLocal, scope.Kind)
	assert.Equal(t, "/w/app", scope.ProjectPath)

	scope, err = parseScopeFlags(client.TypeClaudeCode, "project", "/w/app")
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, client.ScopeProject, scope.Kind)
}

func TestParseScopeFlags_Errors(t *testing.T) {
	_, err := parseScopeFlags(client.TypeClaudeCode, "local", "")
	assert.Error(t, err, "local scope needs a project path")

	_, err = parseScopeFlags(client.TypeClaudeCode, "project", "")
	assert.Error(t, err, "project scope needs a project path")

	_, err = parseScopeFlags(client.TypeClaudeCode, "global", "/w/app")
	assert.Error(t, err, "global scope rejects a project path")

	_, err = parseScopeFlags(client.TypeClaudeCode, "", "/w/app")
	assert.Error(t, err, "project path without a scope")

	_, err = parseScopeFlags(client.TypeClaudeCode, "galactic", "")
	assert.Error(t, err)
}

func TestParseScopeFlags_RejectsUnscopedClients(t *testing.T) {
	_, err := parseScopeFlags(client.TypeCursor, "global", "")
	assert.Error(t, err, "cursor has no scopes")

	_, err = parseScopeFlags(client.TypeCodex, "", "/w/app")
	assert.Error(t, err, "codex has no scopes")

	scope, err := parseScopeFlags(client.TypeCursor, "", "")
	require.NoError(t, err)
	assert.Nil(t, scope)
}

func TestParseKeyValueSlice(t *testing.T) {
	got, err := parseKeyValueSlice([]string{"A=1", "B=x=y"}, "--env")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, got)

	got, err = parseKeyValueSlice(nil, "--env")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseKeyValueSlice([]string{"NOEQUALS"}, "--env")
	assert.Error(t, err)

	_, err = parseKeyValueSlice([]string{"=value"}, "--env")
	assert.Error(t, err)
}

func TestMaskSecrets(t *testing.T) {
	env := map[string]string{
		"GITHUB_TOKEN": "ghp_1234567890",
		"DB_HOST":      "localhost",
		"API_KEY":      "ab",
	}

	masked := maskSecrets(env, false)
	assert.Equal(t, "****7890", masked["GITHUB_TOKEN"])
	assert.Equal(t, "localhost", masked["DB_HOST"])
	assert.Equal(t, "********", masked["API_KEY"])

	shown := maskSecrets(env, true)
	assert.Equal(t, env, shown)

	assert.Nil(t, maskSecrets(nil, false))
}
