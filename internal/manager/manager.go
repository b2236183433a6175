// Package manager is the single owner of application state: it drives
// discovery, reconciliation, and the disable/enable lifecycle that moves
// server configs between live client files and the disabled store.
package manager

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/discovery"
	"github.com/mcpdock/mcpdock/internal/engine"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/store"
	"github.com/mcpdock/mcpdock/internal/unify"
)

// Manager coordinates all mutating operations. One instance owns the
// disabled store and serializes the disable/enable flows that span both a
// client config and the store document.
type Manager struct {
	mu     sync.Mutex
	disc   *discovery.Discoverer
	eng    *engine.Engine
	store  *store.Store
	logger *slog.Logger

	clients []*client.Client
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New creates a Manager from its three collaborators.
func New(disc *discovery.Discoverer, eng *engine.Engine, st *store.Store, opts ...Option) *Manager {
	m := &Manager{
		disc:   disc,
		eng:    eng,
		store:  st,
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Engine exposes the mutation engine for direct install/uninstall flows.
func (m *Manager) Engine() *engine.Engine {
	return m.eng
}

// Store exposes the disabled-servers store.
func (m *Manager) Store() *store.Store {
	return m.store
}

// Refresh re-discovers every client from disk and returns the fresh list.
func (m *Manager) Refresh(ctx context.Context) []*client.Client {
	clients := m.disc.DiscoverAll(ctx)

	m.mu.Lock()
	m.clients = clients
	m.mu.Unlock()

	return clients
}

// Clients returns the last discovered client list, refreshing first if no
// discovery pass has run yet.
func (m *Manager) Clients(ctx context.Context) []*client.Client {
	m.mu.Lock()
	cached := m.clients
	m.mu.Unlock()

	if cached == nil {
		return m.Refresh(ctx)
	}
	return cached
}

// Servers re-discovers all clients and reconciles them with the disabled
// store into the unified view.
func (m *Manager) Servers(ctx context.Context) []*unify.Server {
	return unify.Unify(m.Refresh(ctx), m.store.Entries())
}

// Disable captures the server's live config into the disabled store, then
// removes it from the client. If the removal fails the store entry is
// rolled back so the two stay consistent.
func (m *Manager) Disable(ctx context.Context, name string, t client.Type, scope *client.Scope) error {
	c := m.disc.Discover(ctx, t)
	key := name
	if scope != nil {
		key = client.CompositeKey(name, *scope)
	} else if spec, err := client.SpecFor(t); err == nil && spec.SupportsScopes {
		// Scope-capable discovery only stores composite keys; a nil
		// scope means global, matching the engine's write path.
		key = client.CompositeKey(name, client.GlobalScope())
	}
	cfg, ok := c.Servers[key]
	if !ok {
		return errors.Wrapf(errors.ErrServerNotFound, "server %q not installed for %s", name, t)
	}

	stored := store.StoredConfig{Command: cfg.Command, Args: cfg.Args, Env: cfg.Env}
	if err := m.store.Disable(name, t, scope, stored); err != nil {
		return err
	}

	if err := m.eng.Uninstall(name, t, scope); err != nil {
		if rbErr := m.store.Enable(name, t, scope); rbErr != nil {
			m.logger.Error("failed to roll back disable entry", "server", name, "client", t, "error", rbErr)
		}
		return err
	}

	m.logger.Info("disabled server", "server", name, "client", t)
	return nil
}

// Enable restores a disabled server from the store into the client config
// it was disabled from, then drops the store entry. Enabling a server with
// no entry is a no-op.
func (m *Manager) Enable(ctx context.Context, name string, t client.Type, scope *client.Scope) error {
	cfg, ok := m.store.Get(name, t, scope)
	if !ok {
		return nil
	}

	if err := m.eng.EnableFromStore(name, cfg, t, scope); err != nil {
		return err
	}
	if err := m.store.Enable(name, t, scope); err != nil {
		return err
	}

	m.logger.Info("enabled server", "server", name, "client", t)
	return nil
}
