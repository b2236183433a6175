// Package backup snapshots client config files before mutating writes.
// Snapshots are plain copies under a per-client directory, named by
// timestamp, with oldest-first pruning past a retention count.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/paths"
)

// DefaultRetentionCount is the default number of snapshots to retain per client.
const DefaultRetentionCount = 5

// timestampFormat orders snapshot filenames lexicographically by creation time.
const timestampFormat = "20060102T150405.000"

// Manager handles snapshot creation, listing, and pruning.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of snapshots to retain per client.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot copies the file at path into the client's backup directory and
// prunes old snapshots. A missing source file is a no-op: there is nothing
// to preserve before a first write.
func (m *Manager) Snapshot(clientName, path string) error {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "opening config for backup")
	}
	defer src.Close()

	dir := filepath.Join(m.rootDir, clientName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "creating backup directory")
	}

	name := fmt.Sprintf("%s-%s", m.now().UTC().Format(timestampFormat), filepath.Base(path))
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return errors.Wrap(err, "creating backup file")
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return errors.Wrap(err, "copying config to backup")
	}
	if err := dst.Close(); err != nil {
		return errors.Wrap(err, "closing backup file")
	}

	return m.prune(dir)
}

// List returns the snapshot filenames for a client, newest first.
func (m *Manager) List(clientName string) ([]string, error) {
	dir := filepath.Join(m.rootDir, clientName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// prune removes the oldest snapshots past the retention count.
func (m *Manager) prune(dir string) error {
	names, err := m.List(filepath.Base(dir))
	if err != nil {
		return err
	}
	for _, name := range names[min(len(names), m.retentionCount):] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return errors.Wrap(err, "pruning old backup")
		}
	}
	return nil
}
