package jsondoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		wantLen int
	}{
		{"empty input", "", false, 0},
		{"whitespace only", "  \n\t ", false, 0},
		{"empty object", "{}", false, 0},
		{"object", `{"a": 1, "b": {"c": 2}}`, false, 2},
		{"array", `[1, 2]`, true, 0},
		{"scalar", `42`, true, 0},
		{"garbage", `{nope`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, doc, tt.wantLen)
		})
	}
}

func TestParseLenient_InvalidBecomesEmpty(t *testing.T) {
	doc := ParseLenient([]byte(`not json at all`))
	assert.Empty(t, doc)

	doc = ParseLenient([]byte(`{"keep": true}`))
	assert.Len(t, doc, 1)
}

func TestGet(t *testing.T) {
	doc, err := Parse([]byte(`{"mcp": {"servers": {"fs": {"command": "npx"}}}, "n": 1}`))
	require.NoError(t, err)

	val, ok := doc.Get("mcp", "servers", "fs", "command")
	require.True(t, ok)
	assert.Equal(t, "npx", val)

	_, ok = doc.Get("mcp", "missing")
	assert.False(t, ok)

	// Walking through a non-object value
	_, ok = doc.Get("n", "deeper")
	assert.False(t, ok)
}

func TestSet_CreatesIntermediates(t *testing.T) {
	doc := Doc{}
	doc.Set(map[string]any{"command": "npx"}, "mcp", "servers", "fs")

	obj, ok := doc.Object("mcp", "servers", "fs")
	require.True(t, ok)
	assert.Equal(t, "npx", obj["command"])
}

func TestSet_ReplacesNonObjectIntermediate(t *testing.T) {
	doc, err := Parse([]byte(`{"mcp": "corrupt"}`))
	require.NoError(t, err)

	doc.Set("x", "mcp", "servers", "fs")

	val, ok := doc.Get("mcp", "servers", "fs")
	require.True(t, ok)
	assert.Equal(t, "x", val)
}

func TestSet_PreservesSiblings(t *testing.T) {
	doc, err := Parse([]byte(`{"mcpServers": {"a": {"command": "x"}}, "otherSetting": 42}`))
	require.NoError(t, err)

	doc.Set(map[string]any{"command": "y"}, "mcpServers", "b")

	_, ok := doc.Get("mcpServers", "a", "command")
	assert.True(t, ok)
	other, ok := doc.Get("otherSetting")
	require.True(t, ok)
	assert.Equal(t, float64(42), other)
}

func TestDelete(t *testing.T) {
	doc, err := Parse([]byte(`{"mcpServers": {"fs": {"command": "npx"}}, "otherSetting": 42}`))
	require.NoError(t, err)

	assert.True(t, doc.Delete("mcpServers", "fs"))
	assert.False(t, doc.Delete("mcpServers", "fs"), "second delete is a no-op")
	assert.False(t, doc.Delete("no", "such", "path"))

	// Siblings intact, servers object still present but empty
	servers, ok := doc.Object("mcpServers")
	require.True(t, ok)
	assert.Empty(t, servers)
	_, ok = doc.Get("otherSetting")
	assert.True(t, ok)
}

func TestMarshal_DeterministicSortedKeys(t *testing.T) {
	doc := Doc{"zebra": 1, "alpha": 2}

	a, err := doc.Marshal()
	require.NoError(t, err)
	b, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Round-trips as valid JSON with trailing newline
	assert.Equal(t, byte('\n'), a[len(a)-1])
	var back map[string]any
	require.NoError(t, json.Unmarshal(a, &back))
	assert.Len(t, back, 2)
}
