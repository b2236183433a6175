// Package engine applies config mutations: install, uninstall, env update,
// cross-client copy, and restore from the disabled store. Every operation
// resolves the target client's config file, transforms the document through
// the codec layer, and writes the result atomically.
//
// Writers to the same file are serialized with a per-path mutex, so two
// concurrent installs to one client cannot interleave their
// read-modify-write cycles.
package engine

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcpdock/mcpdock/internal/catalog"
	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/codec"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/store"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

// SnapshotFunc is called with the client name and config path before every
// mutating write. A nil func disables snapshots.
type SnapshotFunc func(clientName, path string) error

// Engine mutates client config files.
type Engine struct {
	home     string
	logger   *slog.Logger
	reporter Reporter
	snapshot SnapshotFunc
	locks    pathLocks
}

// Option configures an Engine.
type Option func(*Engine)

// WithHome overrides the home directory config paths resolve against.
func WithHome(home string) Option {
	return func(e *Engine) { e.home = home }
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithReporter sets the progress phase reporter.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithSnapshot sets the pre-write snapshot hook.
func WithSnapshot(fn SnapshotFunc) Option {
	return func(e *Engine) { e.snapshot = fn }
}

// New creates an Engine. Without WithHome it resolves the current user's
// home directory.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:   logging.NewDiscard(),
		reporter: NopReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolving home directory")
		}
		e.home = home
	}
	return e, nil
}

// Install resolves the launch command for the server's primary package and
// writes the resulting entry into the target client's config. Env vars are
// attached verbatim when non-empty. A nil scope on the scope-capable client
// means global.
func (e *Engine) Install(srv catalog.Server, t client.Type, name string, env map[string]string, scope *client.Scope) error {
	e.reporter.Phase(PhaseGenerating)

	pkg, ok := srv.PrimaryPackage()
	if !ok {
		return errors.Wrapf(errors.ErrNoPackageInfo, "server %q has no packages", srv.Name)
	}
	command, args, err := ResolveLaunch(pkg)
	if err != nil {
		return err
	}

	cfg := client.ServerConfig{Name: name, Command: command, Args: args, Scope: scope}
	if len(env) > 0 {
		cfg.Env = env
	}
	return e.writeServer(t, cfg)
}

// CopyConfig writes an existing server config to another client under the
// given name. The copy always lands in the target's default location: scope
// does not carry across clients.
func (e *Engine) CopyConfig(cfg client.ServerConfig, name string, t client.Type) error {
	out := cfg.Clone()
	out.Name = name
	out.Scope = nil
	return e.writeServer(t, out)
}

// EnableFromStore re-installs a server from its disabled-store config,
// preserving the scope it was disabled in.
func (e *Engine) EnableFromStore(name string, sc store.StoredConfig, t client.Type, scope *client.Scope) error {
	cfg := client.ServerConfig{
		Name:    name,
		Command: sc.Command,
		Args:    sc.Args,
		Env:     sc.Env,
		Scope:   scope,
	}
	return e.writeServer(t, cfg)
}

// UpdateEnv replaces the env block of an installed server in the client's
// default location, leaving command and args intact. An empty map removes
// the block. Returns ErrConfigNotFound if the client has no config file and
// ErrServerNotFound if the server is not installed there.
func (e *Engine) UpdateEnv(name string, t client.Type, env map[string]string) error {
	spec, err := client.SpecFor(t)
	if err != nil {
		return err
	}
	path, err := spec.ResolveConfigPath(e.home)
	if err != nil {
		return err
	}

	unlock := e.locks.lock(path)
	defer unlock()

	e.reporter.Phase(PhaseReading)
	data, err := readIfExists(path)
	if err != nil {
		return err
	}
	if data == nil {
		return errors.Wrapf(errors.ErrConfigNotFound, "no config at %s", path)
	}

	var servers map[string]client.ServerConfig
	if spec.TOML {
		servers = codec.ParseTOMLServers(data)
	} else {
		servers, err = codec.ParseJSONServers(data, e.serversKeyPath(spec))
		if err != nil {
			return err
		}
	}
	cfg, ok := servers[name]
	if !ok {
		return errors.Wrapf(errors.ErrServerNotFound, "server %q not installed for %s", name, t)
	}

	cfg.Env = nil
	if len(env) > 0 {
		cfg.Env = env
	}

	e.reporter.Phase(PhaseAdding)
	out, err := e.upsertBytes(spec, data, cfg)
	if err != nil {
		return err
	}
	return e.write(t, path, out)
}

// Uninstall removes a server entry from the target client's config. The
// config file must exist; removing from a client with no config is
// ErrConfigNotFound. A nil scope on the scope-capable client means global.
func (e *Engine) Uninstall(name string, t client.Type, scope *client.Scope) error {
	spec, err := client.SpecFor(t)
	if err != nil {
		return err
	}
	path, err := e.targetPath(spec, scope)
	if err != nil {
		return err
	}

	unlock := e.locks.lock(path)
	defer unlock()

	e.reporter.Phase(PhaseReading)
	data, err := readIfExists(path)
	if err != nil {
		return err
	}
	if data == nil {
		return errors.Wrapf(errors.ErrConfigNotFound, "no config at %s", path)
	}

	e.reporter.Phase(PhaseRemoving)
	var (
		out     []byte
		removed bool
	)
	switch {
	case spec.TOML:
		out, removed = codec.RemoveTOMLServer(data, name)
	case spec.SupportsScopes && scope != nil && scope.Kind == client.ScopeLocal:
		out, removed, err = codec.RemoveJSONServer(data, []string{"projects", scope.ProjectPath, "mcpServers"}, name)
	default:
		out, removed, err = codec.RemoveJSONServer(data, e.serversKeyPath(spec), name)
	}
	if err != nil {
		return err
	}
	if !removed {
		return errors.Wrapf(errors.ErrServerNotFound, "server %q not installed for %s", name, t)
	}

	return e.write(t, path, out)
}

// writeServer upserts a single server entry into the client's config,
// creating the file and parent directories when absent.
func (e *Engine) writeServer(t client.Type, cfg client.ServerConfig) error {
	spec, err := client.SpecFor(t)
	if err != nil {
		return err
	}
	path, err := e.targetPath(spec, cfg.Scope)
	if err != nil {
		return err
	}

	unlock := e.locks.lock(path)
	defer unlock()

	e.reporter.Phase(PhaseReading)
	data, err := readIfExists(path)
	if err != nil {
		return err
	}

	e.reporter.Phase(PhaseAdding)
	out, err := e.upsertBytes(spec, data, cfg)
	if err != nil {
		return err
	}

	return e.write(t, path, out)
}

// upsertBytes applies the format-appropriate upsert for the spec: TOML
// section replacement, a scoped key path for the scope-capable client, or
// the spec's servers key path otherwise.
func (e *Engine) upsertBytes(spec client.Spec, data []byte, cfg client.ServerConfig) ([]byte, error) {
	if spec.TOML {
		return codec.UpsertTOMLServer(data, cfg), nil
	}
	if spec.SupportsScopes && cfg.Scope != nil && cfg.Scope.Kind == client.ScopeLocal {
		return codec.UpsertJSONServer(data, []string{"projects", cfg.Scope.ProjectPath, "mcpServers"}, cfg)
	}
	return codec.UpsertJSONServer(data, e.serversKeyPath(spec), cfg)
}

// targetPath resolves the file an operation touches. Project scope targets
// the shared config file at the project root; everything else targets the
// client's own config.
func (e *Engine) targetPath(spec client.Spec, scope *client.Scope) (string, error) {
	if spec.SupportsScopes && scope != nil && scope.Kind == client.ScopeProject {
		if scope.ProjectPath == "" {
			return "", errors.Wrap(errors.ErrNoConfigPath, "project scope requires a project path")
		}
		return filepath.Join(scope.ProjectPath, client.ProjectConfigName), nil
	}
	return spec.ResolveConfigPath(e.home)
}

// serversKeyPath returns the JSON key path holding the servers map. The
// scope-capable client's global entries live under the root servers map;
// project-scope files use the same key.
func (e *Engine) serversKeyPath(spec client.Spec) []string {
	if spec.SupportsScopes {
		return []string{"mcpServers"}
	}
	return spec.ServersKeyPath
}

// write snapshots the current file, then replaces it atomically.
func (e *Engine) write(t client.Type, path string, data []byte) error {
	if e.snapshot != nil {
		if err := e.snapshot(string(t), path); err != nil {
			return errors.Wrap(err, "snapshotting config before write")
		}
	}

	e.reporter.Phase(PhaseWriting)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Mark(errors.Wrap(err, "creating config directory"), errors.ErrWriteFailure)
	}
	if err := fileutil.AtomicWriteFile(path, data, 0o600); err != nil {
		return errors.Mark(err, errors.ErrWriteFailure)
	}

	e.logger.Debug("wrote client config", "client", t, "path", path, "bytes", len(data))
	e.reporter.Phase(PhaseRefreshing)
	return nil
}

// readIfExists returns the file contents, or nil without error when the
// file does not exist.
func readIfExists(path string) ([]byte, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// pathLocks hands out one mutex per config file path.
type pathLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

// lock acquires the mutex for path and returns its release func.
func (p *pathLocks) lock(path string) func() {
	p.mu.Lock()
	if p.m == nil {
		p.m = make(map[string]*sync.Mutex)
	}
	l, ok := p.m[path]
	if !ok {
		l = &sync.Mutex{}
		p.m[path] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
