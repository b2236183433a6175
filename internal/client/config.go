package client

import "maps"

// ServerConfig is the atomic unit written into a client's native config:
// a launch command with arguments and optional environment variables.
// Scope is set only for entries discovered from the scope-capable client.
type ServerConfig struct {
	Name    string            `json:"name"`
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Scope   *Scope            `json:"scope,omitempty"`
}

// Key returns the identity key for per-client storage: the bare name, or
// the composite key when the config carries a scope.
func (c ServerConfig) Key() string {
	if c.Scope != nil {
		return CompositeKey(c.Name, *c.Scope)
	}
	return c.Name
}

// Clone returns a deep copy of the config.
func (c ServerConfig) Clone() ServerConfig {
	out := c
	if c.Args != nil {
		out.Args = append([]string(nil), c.Args...)
	}
	if c.Env != nil {
		out.Env = maps.Clone(c.Env)
	}
	if c.Scope != nil {
		s := *c.Scope
		out.Scope = &s
	}
	return out
}

// Client is the discovered runtime state of one client type. Instances are
// created fresh on every discovery pass and never mutated in place.
type Client struct {
	// Type is the client this state belongs to.
	Type Type

	// ConfigPath is the resolved config file location. May point at a file
	// that does not exist yet.
	ConfigPath string

	// Installed reports whether any of the client's install markers matched.
	Installed bool

	// Servers maps composite keys to discovered server configs.
	Servers map[string]ServerConfig
}
