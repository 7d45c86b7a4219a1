// Package provider owns the provider registries and orchestrates switching,
// persistence and environment resolution behind a single lock.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xabinapal/ccswitch/internal/config"
	"github.com/xabinapal/ccswitch/internal/environment"
	"github.com/xabinapal/ccswitch/internal/live"
	"github.com/xabinapal/ccswitch/internal/logging"
	"github.com/xabinapal/ccswitch/internal/notify"
	"github.com/xabinapal/ccswitch/internal/store"
	"github.com/xabinapal/ccswitch/internal/types"
)

// Persister loads and saves the config store.
type Persister interface {
	Load() (*types.ConfigStore, error)
	Save(cs *types.ConfigStore) error
}

// LiveWriter reads and writes the live configuration files.
type LiveWriter interface {
	Read(app types.AppKind, layout environment.Layout) (json.RawMessage, error)
	Backfill(app types.AppKind, layout environment.Layout) (json.RawMessage, bool, error)
	Apply(app types.AppKind, layout environment.Layout, raw json.RawMessage) error
	Status(app types.AppKind, layout environment.Layout) (live.Status, error)
}

// Resolver locates live files for the configured environment.
type Resolver interface {
	Layout(ctx context.Context, settings types.Settings) (environment.Layout, error)
	ListDistros(ctx context.Context) ([]string, error)
	ResolveHome(ctx context.Context, distro string) (string, error)
}

// Manager is the single owner of the in-memory config store.
//
// mu guards store and is held only for map reads and writes. Settings
// reads, wsl.exe calls, live file writes and store saves all run with mu
// released. Saves are serialised by saveMu; each carries the generation
// of its snapshot so an older snapshot never overwrites a newer one.
//
// liveMu serialises the operations that write live files, from backfill
// until the registry update is persisted, so the current provider always
// names what was written last. It is taken before mu, never while holding it.
type Manager struct {
	liveMu sync.Mutex

	mu       sync.Mutex
	poisoned bool
	store    *types.ConfigStore
	gen      uint64

	saveMu   sync.Mutex
	savedGen uint64

	settingsPath string
	persister    Persister
	live         LiveWriter
	resolver     Resolver
	notifier     notify.Notifier
	logger       *log.Logger
	now          func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithPersister replaces the config store persister.
func WithPersister(p Persister) Option {
	return func(m *Manager) {
		m.persister = p
	}
}

// WithLiveWriter replaces the live config writer.
func WithLiveWriter(w LiveWriter) Option {
	return func(m *Manager) {
		m.live = w
	}
}

// WithResolver replaces the environment resolver.
func WithResolver(r Resolver) Option {
	return func(m *Manager) {
		m.resolver = r
	}
}

// WithNotifier sets the notifier used when notifyOnSwitch is enabled.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock sets the time source for provider creation times.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Open loads the config store under paths and returns a ready Manager.
func Open(paths config.Paths, opts ...Option) (*Manager, error) {
	m := &Manager{
		settingsPath: paths.SettingsFile,
		notifier:     notify.Nop(),
		logger:       logging.Discard(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.persister == nil {
		m.persister = store.New(paths, store.WithLogger(m.logger))
	}
	if m.live == nil {
		m.live = live.NewWriter(live.WithLogger(m.logger))
	}
	if m.resolver == nil {
		m.resolver = environment.NewResolver(environment.WithLogger(m.logger))
	}

	cs, err := m.persister.Load()
	if err != nil {
		return nil, err
	}
	cs.EnsureApps()
	cs.Settings = config.LoadSettings(m.settingsPath)
	m.store = cs
	return m, nil
}

// withLock runs fn with the store locked. A panic inside fn poisons the
// manager: the panic propagates and every later call fails with
// ErrLockAcquisition.
func (m *Manager) withLock(fn func(cs *types.ConfigStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.poisoned {
		return fmt.Errorf("%w: a previous operation panicked", types.ErrLockAcquisition)
	}
	defer func() {
		if r := recover(); r != nil {
			m.poisoned = true
			panic(r)
		}
	}()
	return fn(m.store)
}

// withRegistry runs fn with the registry of app locked.
func (m *Manager) withRegistry(app types.AppKind, fn func(r *types.Registry) error) error {
	return m.withLock(func(cs *types.ConfigStore) error {
		r, err := cs.Registry(app)
		if err != nil {
			return err
		}
		return fn(r)
	})
}

// mutate applies fn under the lock and persists the resulting snapshot
// after releasing it. When fn or the save fails the store is restored to
// its previous state.
func (m *Manager) mutate(fn func(cs *types.ConfigStore) error) error {
	var (
		prev *types.ConfigStore
		snap *types.ConfigStore
		gen  uint64
	)
	err := m.withLock(func(cs *types.ConfigStore) error {
		before := cs.Clone()
		if err := fn(cs); err != nil {
			m.store = before
			return err
		}
		m.gen++
		gen = m.gen
		prev = before
		snap = cs.Clone()
		return nil
	})
	if err != nil {
		return err
	}
	if err := m.save(snap, gen); err != nil {
		m.rollback(prev, gen)
		return err
	}
	return nil
}

// rollback restores prev after the save of generation gen failed. A later
// mutation already built on gen is kept; its own save decides the outcome.
func (m *Manager) rollback(prev *types.ConfigStore, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		m.logger.Warn("store changed after a failed save, keeping newer state", "failed", gen, "current", m.gen)
		return
	}
	m.store = prev
}

// mutateRegistry is mutate for the registry of one application.
func (m *Manager) mutateRegistry(app types.AppKind, fn func(r *types.Registry) error) error {
	return m.mutate(func(cs *types.ConfigStore) error {
		r, err := cs.Registry(app)
		if err != nil {
			return err
		}
		return fn(r)
	})
}

func (m *Manager) save(snap *types.ConfigStore, gen uint64) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if gen <= m.savedGen {
		// A newer snapshot is already on disk.
		return nil
	}
	if err := m.persister.Save(snap); err != nil {
		return err
	}
	m.savedGen = gen
	return nil
}

// layout resolves the live file layout for the current settings.
func (m *Manager) layout(ctx context.Context) (types.Settings, environment.Layout, error) {
	settings := m.Settings()
	layout, err := m.resolver.Layout(ctx, settings)
	return settings, layout, err
}
