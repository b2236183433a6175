// Package unify folds per-client discovery results and the disabled-servers
// store into one logical view per server name. The view is ephemeral:
// recomputed on every call, never cached.
package unify

import (
	"sort"
	"strings"

	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/store"
)

// Server is the reconciled view of one logical server name across all
// clients. PerClient holds flat (unscoped) registrations; Scoped holds the
// scope-capable client's registrations keyed by scope ID. Disabled sets
// record only the fact of a disabled registration; the stored config stays
// in the store until re-enabled.
type Server struct {
	Name            string
	PerClient       map[client.Type]client.ServerConfig
	Scoped          map[string]client.ServerConfig
	DisabledClients map[client.Type]bool
	DisabledScopes  map[string]bool
}

// newServer returns an empty view for a name.
func newServer(name string) *Server {
	return &Server{
		Name:            name,
		PerClient:       make(map[client.Type]client.ServerConfig),
		Scoped:          make(map[string]client.ServerConfig),
		DisabledClients: make(map[client.Type]bool),
		DisabledScopes:  make(map[string]bool),
	}
}

// Enabled reports whether the server has at least one live registration.
func (s *Server) Enabled() bool {
	return len(s.PerClient) > 0 || len(s.Scoped) > 0
}

// Unify builds the unified server list from discovered clients and disabled
// entries, sorted case-insensitively by name.
func Unify(clients []*client.Client, disabled []store.Entry) []*Server {
	byName := make(map[string]*Server)

	get := func(name string) *Server {
		s, ok := byName[name]
		if !ok {
			s = newServer(name)
			byName[name] = s
		}
		return s
	}

	for _, c := range clients {
		if c == nil {
			continue
		}
		for key, cfg := range c.Servers {
			if c.Type == client.TypeClaudeCode {
				name, scope := client.SplitCompositeKey(key)
				if scope != nil {
					get(name).Scoped[scope.ID()] = cfg
					continue
				}
				get(name).PerClient[c.Type] = cfg
				continue
			}
			get(key).PerClient[c.Type] = cfg
		}
	}

	for _, e := range disabled {
		s := get(e.ServerName)
		if e.Scope != nil {
			s.DisabledScopes[e.Scope.ID()] = true
			continue
		}
		s.DisabledClients[e.ClientType] = true
	}

	out := make([]*Server, 0, len(byName))
	for _, s := range byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Name < out[j].Name
	})
	return out
}
