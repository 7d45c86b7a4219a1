// Package store persists the provider registries to the config file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xabinapal/ccswitch/internal/config"
	"github.com/xabinapal/ccswitch/internal/fsx"
	"github.com/xabinapal/ccswitch/internal/types"
)

// Store loads and saves the config file, keeping a rolling backup.
type Store struct {
	paths  config.Paths
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock sets the time source used to name migration backups.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a store for the files in paths.
func New(paths config.Paths, opts ...Option) *Store {
	s := &Store{
		paths:  paths,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paths returns the file locations used by the store.
func (s *Store) Paths() config.Paths {
	return s.paths
}

// Load reads the config file. A missing file yields the default store and
// nothing is written. A legacy file is migrated, backed up and persisted.
func (s *Store) Load() (*types.ConfigStore, error) {
	// #nosec G304 - path is the config file inside the config directory
	data, err := os.ReadFile(s.paths.ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.DefaultConfigStore(), nil
		}
		return nil, fmt.Errorf("%w: failed to read config file: %v", types.ErrIO, err)
	}

	if legacy, ok := parseLegacy(data); ok {
		return s.migrate(data, legacy)
	}

	var cs types.ConfigStore
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedStore, s.paths.ConfigFile, err)
	}
	s.repair(&cs)
	return &cs, nil
}

// repair clears current pointers that name a missing provider.
func (s *Store) repair(cs *types.ConfigStore) {
	for app, r := range cs.Registries {
		if !r.Valid() {
			s.logger.Warn("current provider does not exist, clearing", "app", app, "current", r.Current)
			r.SetCurrent("")
		}
	}
}

// Save writes the store as indented JSON. The previous file is copied to
// the rolling backup first; a failed backup is logged and does not stop
// the save.
func (s *Store) Save(cs *types.ConfigStore) error {
	if err := s.paths.EnsureDirs(); err != nil {
		return fmt.Errorf("%w: failed to create config directory: %v", types.ErrIO, err)
	}

	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal config: %v", types.ErrSerialization, err)
	}

	if fsx.Exists(s.paths.ConfigFile) {
		if err := fsx.CopyFile(s.paths.ConfigFile, s.paths.BackupFile, 0600); err != nil {
			s.logger.Warn("failed to back up config file", "path", s.paths.BackupFile, "error", err)
		}
	}

	if err := fsx.WriteFileAtomic(s.paths.ConfigFile, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write config file: %v", types.ErrIO, err)
	}
	return nil
}
