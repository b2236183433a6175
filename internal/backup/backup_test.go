package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, retention int) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m := NewManager(WithBackupDir(dir), WithRetentionCount(retention))

	// Deterministic, strictly increasing clock so snapshot names never collide.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
	return m, dir
}

func TestSnapshot_CopiesFile(t *testing.T) {
	m, dir := newTestManager(t, 5)

	src := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"mcpServers":{}}`), 0o600))

	require.NoError(t, m.Snapshot("cursor", src))

	names, err := m.List("cursor")
	require.NoError(t, err)
	require.Len(t, names, 1)

	data, err := os.ReadFile(filepath.Join(dir, "cursor", names[0]))
	require.NoError(t, err)
	assert.Equal(t, `{"mcpServers":{}}`, string(data))
}

func TestSnapshot_MissingSourceIsNoop(t *testing.T) {
	m, _ := newTestManager(t, 5)

	require.NoError(t, m.Snapshot("cursor", filepath.Join(t.TempDir(), "absent.json")))

	names, err := m.List("cursor")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSnapshot_PrunesPastRetention(t *testing.T) {
	m, _ := newTestManager(t, 2)

	src := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(src, []byte("{}"), 0o600))

	for i := 0; i < 4; i++ {
		require.NoError(t, m.Snapshot("windsurf", src))
	}

	names, err := m.List("windsurf")
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestList_NewestFirst(t *testing.T) {
	m, _ := newTestManager(t, 10)

	src := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(src, []byte("{}"), 0o600))

	require.NoError(t, m.Snapshot("vscode", src))
	require.NoError(t, m.Snapshot("vscode", src))

	names, err := m.List("vscode")
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Greater(t, names[0], names[1])
}

func TestList_UnknownClient(t *testing.T) {
	m, _ := newTestManager(t, 5)

	names, err := m.List("nope")
	require.NoError(t, err)
	assert.Nil(t, names)
}
