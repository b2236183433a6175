// Package store persists the disabled-servers side table: servers a user
// disabled, keyed by (server, client, optional scope), holding enough of
// the original config to restore it later.
//
// The whole table is a single JSON document. Mutations follow the pattern
// load-document, change in memory, write-document, so the Store serializes
// its own writers with an internal mutex; callers share one Store instance
// per file.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

// Version is the current schema version of the store document.
const Version = 2

// StoredConfig holds the parts of a server config worth restoring:
// command, args, and env. Name and scope live on the entry itself.
type StoredConfig struct {
	Args    []string          `json:"args,omitempty"`
	Command string            `json:"command"`
	Env     map[string]string `json:"env,omitempty"`
}

// Entry is one disabled server registration. Identity is the
// (ServerName, ClientType, Scope) tuple.
type Entry struct {
	Scope      *client.Scope `json:"claudeCodeScope,omitempty"`
	ClientType client.Type   `json:"clientType"`
	Config     StoredConfig  `json:"config"`
	DisabledAt time.Time     `json:"disabledAt"`
	ServerName string        `json:"serverName"`
}

// matches reports whether the entry has the given identity.
func (e Entry) matches(name string, t client.Type, scope *client.Scope) bool {
	if e.ServerName != name || e.ClientType != t {
		return false
	}
	if (e.Scope == nil) != (scope == nil) {
		return false
	}
	if e.Scope == nil {
		return true
	}
	return e.Scope.ID() == scope.ID()
}

type document struct {
	Entries []Entry `json:"entries"`
	Version int     `json:"version"`
}

// Store is the durable disabled-servers table. Create one with Load.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
	now  func() time.Time
}

// Load reads the store document from path. A missing file yields an empty
// store, not an error.
func Load(path string) (*Store, error) {
	s := &Store{
		path: path,
		doc:  document{Entries: []Entry{}, Version: Version},
		now:  time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading disabled-servers store")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	doc.Version = Version
	s.doc = doc

	return s, nil
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	return s.path
}

// Disable records a disabled server, replacing any prior entry with the
// same (name, client, scope) identity, and persists the store.
func (s *Store) Disable(name string, t client.Type, scope *client.Scope, cfg StoredConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(name, t, scope)
	s.doc.Entries = append(s.doc.Entries, Entry{
		ServerName: name,
		ClientType: t,
		Scope:      scope,
		Config:     cfg,
		DisabledAt: s.now().UTC(),
	})

	return s.saveLocked()
}

// Enable removes the matching entry and persists the store. Enabling a
// server with no entry is a no-op, not an error.
func (s *Store) Enable(name string, t client.Type, scope *client.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.evictLocked(name, t, scope) {
		return nil
	}
	return s.saveLocked()
}

// Get returns the stored config for the identity, if present.
func (s *Store) Get(name string, t client.Type, scope *client.Scope) (StoredConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.doc.Entries {
		if e.matches(name, t, scope) {
			return e.Config, true
		}
	}
	return StoredConfig{}, false
}

// AllFor returns every disabled entry for the server name, across clients
// and scopes.
func (s *Store) AllFor(name string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for _, e := range s.doc.Entries {
		if e.ServerName == name {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns a copy of all entries in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Entry(nil), s.doc.Entries...)
}

// evictLocked removes any entry matching the identity. Callers hold s.mu.
func (s *Store) evictLocked(name string, t client.Type, scope *client.Scope) bool {
	kept := s.doc.Entries[:0]
	evicted := false
	for _, e := range s.doc.Entries {
		if e.matches(name, t, scope) {
			evicted = true
			continue
		}
		kept = append(kept, e)
	}
	s.doc.Entries = kept
	return evicted
}

// saveLocked writes the whole document atomically, creating parent
// directories as needed. Callers hold s.mu.
func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating store directory")
	}
	if err := fileutil.AtomicWriteJSON(s.path, s.doc); err != nil {
		return errors.Mark(err, errors.ErrWriteFailure)
	}
	return nil
}
