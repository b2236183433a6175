// Package discovery probes the system for installed MCP clients and loads
// each one's registered servers into a per-client map.
//
// Discovery is read-only and uncached: every pass re-reads disk and
// re-resolves install state, since external tools may alter these files at
// any time. A parse failure for one client degrades to an empty server map
// for that client and never aborts the pass.
package discovery

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/codec"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/paths"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

// Discoverer probes client install state and configs under one home
// directory. Safe for concurrent use.
type Discoverer struct {
	home     string
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithHome overrides the home directory used for path resolution.
func WithHome(home string) Option {
	return func(d *Discoverer) {
		d.home = home
	}
}

// WithLookPath overrides PATH lookup, for tests.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(d *Discoverer) {
		d.lookPath = fn
	}
}

// WithLogger sets the logger for parse warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		d.logger = logger
	}
}

// New creates a Discoverer. The home directory defaults to the current
// user's; overriding it is the seam tests use.
func New(opts ...Option) (*Discoverer, error) {
	home, err := paths.ResolveHome()
	if err != nil {
		return nil, err
	}

	d := &Discoverer{
		home:     home,
		lookPath: exec.LookPath,
		logger:   logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DiscoverAll probes every supported client type concurrently and returns
// one Client per type in deterministic order. Per-client failures degrade
// to empty server maps; the result is always fully populated.
func (d *Discoverer) DiscoverAll(ctx context.Context) []*client.Client {
	types := client.Types()
	results := make([]*client.Client, len(types))

	var wg sync.WaitGroup
	for i, t := range types {
		wg.Add(1)
		go func(i int, t client.Type) {
			defer wg.Done()
			results[i] = d.Discover(ctx, t)
		}(i, t)
	}
	wg.Wait()

	return results
}

// Discover probes a single client type: install markers, config path
// resolution, and config parsing.
func (d *Discoverer) Discover(ctx context.Context, t client.Type) *client.Client {
	c := &client.Client{
		Type:    t,
		Servers: make(map[string]client.ServerConfig),
	}

	spec, err := client.SpecFor(t)
	if err != nil {
		d.logger.Warn("skipping unknown client type", "client", t, "error", err)
		return c
	}

	configPath, err := spec.ResolveConfigPath(d.home)
	if err != nil {
		d.logger.Warn("no config path for client", "client", t, "error", err)
		return c
	}
	c.ConfigPath = configPath

	c.Installed = d.isInstalled(spec, configPath)

	if _, err := os.Stat(configPath); err != nil {
		return c
	}

	servers, err := d.parseServers(spec, configPath)
	if err != nil {
		d.logger.Warn("failed to parse client config, treating as empty",
			"client", t, "path", configPath, "error", err)
		return c
	}
	c.Servers = servers

	return c
}

// isInstalled checks the client's install markers: app bundle directories,
// commands resolvable via PATH, and for evidence-based clients a config
// file showing prior use.
func (d *Discoverer) isInstalled(spec client.Spec, configPath string) bool {
	for _, bundle := range spec.AppBundles {
		path := bundle
		if !filepath.IsAbs(path) {
			path = filepath.Join(d.home, path)
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return true
		}
	}

	for _, cmd := range spec.Commands {
		if _, err := d.lookPath(cmd); err == nil {
			return true
		}
	}

	if spec.ConfigEvidence {
		if d.hasUsageEvidence(configPath) {
			return true
		}
	}

	return false
}

// hasUsageEvidence reports whether the config file exists and records
// prior use: an install-method marker or a positive launch counter. This
// covers CLI tools invoked without being installed in the OS sense.
func (d *Discoverer) hasUsageEvidence(configPath string) bool {
	doc, err := d.readDoc(configPath)
	if err != nil {
		return false
	}
	if _, ok := doc.Get("installMethod"); ok {
		return true
	}
	if n, ok := doc.Get("numStartups"); ok {
		if count, ok := n.(float64); ok && count > 0 {
			return true
		}
	}
	return false
}

func (d *Discoverer) parseServers(spec client.Spec, configPath string) (map[string]client.ServerConfig, error) {
	data, err := fileutil.ReadFileWithLimit(configPath)
	if err != nil {
		return nil, err
	}

	switch {
	case spec.TOML:
		return codec.ParseTOMLServers(data), nil
	case spec.SupportsScopes:
		return d.parseScopedServers(data)
	default:
		return codec.ParseJSONServers(data, spec.ServersKeyPath)
	}
}
