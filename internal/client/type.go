package client

// Type identifies a supported MCP client application.
type Type string

// Supported client types.
const (
	TypeClaudeDesktop Type = "claude-desktop"
	TypeClaudeCode    Type = "claude-code"
	TypeCursor        Type = "cursor"
	TypeWindsurf      Type = "windsurf"
	TypeVSCode        Type = "vscode"
	TypeGemini        Type = "gemini"
	TypeCodex         Type = "codex"
)

// Types returns all supported client types in deterministic order.
func Types() []Type {
	return []Type{
		TypeClaudeDesktop,
		TypeClaudeCode,
		TypeCursor,
		TypeWindsurf,
		TypeVSCode,
		TypeGemini,
		TypeCodex,
	}
}

// Valid returns true if t is a known client type.
func (t Type) Valid() bool {
	_, ok := specs[t]
	return ok
}

// DisplayName returns the human-readable name for the client type.
// Unknown types return their raw string value.
func (t Type) DisplayName() string {
	if spec, ok := specs[t]; ok {
		return spec.DisplayName
	}
	return string(t)
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}
