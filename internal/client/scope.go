package client

import "strings"

// ScopeKind discriminates the three storage locations Claude Code supports
// for the same logical server name.
type ScopeKind string

const (
	// ScopeGlobal stores the server in the root servers map of the
	// client's single config document.
	ScopeGlobal ScopeKind = "global"

	// ScopeLocal stores the server under the projects map of the client's
	// config document, keyed by absolute project path.
	ScopeLocal ScopeKind = "local"

	// ScopeProject stores the server in a .mcp.json file shared at the
	// project root.
	ScopeProject ScopeKind = "project"
)

// scopeOrder defines the total order Global < Local < Project.
var scopeOrder = map[ScopeKind]int{
	ScopeGlobal:  0,
	ScopeLocal:   1,
	ScopeProject: 2,
}

// ProjectConfigName is the project-scope config file placed at a project
// root, shared through version control.
const ProjectConfigName = ".mcp.json"

// Scope identifies one of the independent storage locations for a server
// registration. ProjectPath is empty for the global scope.
type Scope struct {
	Kind        ScopeKind `json:"type"`
	ProjectPath string    `json:"projectPath,omitempty"`
}

// GlobalScope returns the global scope.
func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}

// LocalScope returns a local scope for the given project path.
func LocalScope(projectPath string) Scope {
	return Scope{Kind: ScopeLocal, ProjectPath: projectPath}
}

// ProjectScope returns a project scope for the given project path.
func ProjectScope(projectPath string) Scope {
	return Scope{Kind: ScopeProject, ProjectPath: projectPath}
}

// ID returns the scope's identity string: "global", "local:<path>", or
// "project:<path>". Two scopes are equal iff their IDs are equal.
func (s Scope) ID() string {
	switch s.Kind {
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local:" + s.ProjectPath
	case ScopeProject:
		return "project:" + s.ProjectPath
	}
	return string(s.Kind)
}

// Less orders scopes Global < Local < Project, ties broken by project path.
func (s Scope) Less(other Scope) bool {
	if s.Kind != other.Kind {
		return scopeOrder[s.Kind] < scopeOrder[other.Kind]
	}
	return s.ProjectPath < other.ProjectPath
}

// Composite key suffixes. A scoped server is stored in the per-client map
// under name + "_" + scope ID so same-named servers in different scopes do
// not collide.
const (
	suffixGlobal  = "_global"
	markerLocal   = "_local:"
	markerProject = "_project:"
)

// CompositeKey synthesizes the per-client map key for a server name in a
// given scope.
func CompositeKey(name string, s Scope) string {
	return name + "_" + s.ID()
}

// SplitCompositeKey decomposes a composite key back into the server name
// and scope. Keys not matching any known suffix pattern are treated as
// bare names with no scope.
//
// A server literally named "foo_global" is indistinguishable from a
// global-scoped "foo"; the suffix match wins. Carrying the scope as a
// structured field end-to-end would remove the ambiguity.
func SplitCompositeKey(key string) (string, *Scope) {
	if strings.HasSuffix(key, suffixGlobal) {
		s := GlobalScope()
		return strings.TrimSuffix(key, suffixGlobal), &s
	}
	if i := strings.LastIndex(key, markerLocal); i >= 0 {
		s := LocalScope(key[i+len(markerLocal):])
		return key[:i], &s
	}
	if i := strings.LastIndex(key, markerProject); i >= 0 {
		s := ProjectScope(key[i+len(markerProject):])
		return key[:i], &s
	}
	return key, nil
}
