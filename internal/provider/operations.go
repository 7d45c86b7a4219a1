package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/xabinapal/ccswitch/internal/environment"
	"github.com/xabinapal/ccswitch/internal/fsx"
	"github.com/xabinapal/ccswitch/internal/types"
	"github.com/xabinapal/ccswitch/internal/utils"
)

// ListProviders returns a snapshot of every provider of app keyed by id.
func (m *Manager) ListProviders(app types.AppKind) (map[string]types.Provider, error) {
	var out map[string]types.Provider
	err := m.withRegistry(app, func(r *types.Registry) error {
		out = r.List()
		return nil
	})
	return out, err
}

// GetCurrent returns the active provider id of app, possibly empty.
func (m *Manager) GetCurrent(app types.AppKind) (string, error) {
	var current string
	err := m.withRegistry(app, func(r *types.Registry) error {
		current = r.Current
		return nil
	})
	return current, err
}

// GetProvider returns a copy of one provider.
func (m *Manager) GetProvider(app types.AppKind, id string) (types.Provider, error) {
	var p types.Provider
	err := m.withRegistry(app, func(r *types.Registry) error {
		got, err := r.Get(id)
		if err != nil {
			return err
		}
		p = got.Clone()
		return nil
	})
	return p, err
}

// AddProvider inserts or replaces a provider. When it is the active one its
// payload is written to the live files first and the registry is only
// updated if that write succeeds. A failed persist puts the previous live
// contents back.
func (m *Manager) AddProvider(ctx context.Context, app types.AppKind, p types.Provider) error {
	if err := checkProvider(p); err != nil {
		return err
	}
	if p.CreatedAt == nil {
		ms := m.now().UnixMilli()
		p.CreatedAt = &ms
	}

	m.liveMu.Lock()
	defer m.liveMu.Unlock()

	var isCurrent bool
	if err := m.withRegistry(app, func(r *types.Registry) error {
		isCurrent = r.Current == p.ID
		return nil
	}); err != nil {
		return err
	}

	restore := func() {}
	if isCurrent {
		undo, err := m.applyLive(ctx, app, p.SettingsConfig)
		if err != nil {
			return err
		}
		restore = undo
	}

	if err := m.mutateRegistry(app, func(r *types.Registry) error {
		r.Upsert(p.Clone())
		return nil
	}); err != nil {
		restore()
		return err
	}

	m.logger.Info("added provider", "app", app, "id", p.ID, "live", isCurrent)
	return nil
}

// UpdateProvider replaces an existing provider, following the same
// commit-then-persist order as AddProvider. It fails with ErrNotFound when
// the id is absent.
func (m *Manager) UpdateProvider(ctx context.Context, app types.AppKind, p types.Provider) error {
	if err := checkProvider(p); err != nil {
		return err
	}

	m.liveMu.Lock()
	defer m.liveMu.Unlock()

	var isCurrent bool
	if err := m.withRegistry(app, func(r *types.Registry) error {
		existing, err := r.Get(p.ID)
		if err != nil {
			return err
		}
		if p.CreatedAt == nil && existing.CreatedAt != nil {
			ms := *existing.CreatedAt
			p.CreatedAt = &ms
		}
		isCurrent = r.Current == p.ID
		return nil
	}); err != nil {
		return err
	}

	restore := func() {}
	if isCurrent {
		undo, err := m.applyLive(ctx, app, p.SettingsConfig)
		if err != nil {
			return err
		}
		restore = undo
	}

	if err := m.mutateRegistry(app, func(r *types.Registry) error {
		if !r.Has(p.ID) {
			return fmt.Errorf("%w: %s", types.ErrNotFound, p.ID)
		}
		r.Upsert(p.Clone())
		return nil
	}); err != nil {
		restore()
		return err
	}

	m.logger.Info("updated provider", "app", app, "id", p.ID, "live", isCurrent)
	return nil
}

// DeleteProvider removes a provider that is not active, along with the
// per-provider copy files older releases kept next to the live files.
func (m *Manager) DeleteProvider(ctx context.Context, app types.AppKind, id string) error {
	m.liveMu.Lock()
	defer m.liveMu.Unlock()

	var p types.Provider
	if err := m.withRegistry(app, func(r *types.Registry) error {
		if r.Current == id {
			return fmt.Errorf("%w: cannot delete the active provider %s", types.ErrInvalidOperation, id)
		}
		got, err := r.Get(id)
		if err != nil {
			return err
		}
		p = got.Clone()
		return nil
	}); err != nil {
		return err
	}

	if _, layout, err := m.layout(ctx); err != nil {
		m.logger.Warn("cannot resolve live directory, leaving legacy files", "app", app, "error", err)
	} else if err := removeLegacyFiles(app, layout, p); err != nil {
		return err
	}

	if err := m.mutateRegistry(app, func(r *types.Registry) error {
		_, err := r.Remove(id)
		return err
	}); err != nil {
		return err
	}

	m.logger.Info("deleted provider", "app", app, "id", id)
	return nil
}

// legacyFiles lists the per-provider copies older releases wrote, named
// after both the sanitised display name and the id.
func legacyFiles(app types.AppKind, layout environment.Layout, p types.Provider) []string {
	keys := []string{utils.SanitizeProviderName(p.Name), p.ID}
	var files []string
	for _, key := range keys {
		if key == "" {
			continue
		}
		switch app {
		case types.AppClaude:
			files = append(files, filepath.Join(layout.ClaudeDir(), "settings-"+key+".json"))
		case types.AppCodex:
			files = append(files,
				filepath.Join(layout.CodexDir(), "auth-"+key+".json"),
				filepath.Join(layout.CodexDir(), "config-"+key+".toml"))
		}
	}
	return files
}

func removeLegacyFiles(app types.AppKind, layout environment.Layout, p types.Provider) error {
	for _, path := range legacyFiles(app, layout, p) {
		// Names derived from display names must stay inside the app directory.
		if filepath.Dir(path) != layout.Dir(app) {
			continue
		}
		if err := fsx.RemoveIfExists(path); err != nil {
			return fmt.Errorf("%w: failed to remove %s: %v", types.ErrIO, path, err)
		}
	}
	return nil
}

// checkProvider validates the fields every stored provider needs.
func checkProvider(p types.Provider) error {
	if p.ID == "" {
		return fmt.Errorf("%w: provider id", types.ErrMissingField)
	}
	if len(p.SettingsConfig) == 0 {
		return fmt.Errorf("%w: settingsConfig", types.ErrMissingField)
	}
	if !json.Valid(p.SettingsConfig) {
		return fmt.Errorf("%w: settingsConfig is not valid JSON", types.ErrSerialization)
	}
	return nil
}

// applyLive writes raw to the live files of app. The returned func puts
// back the live contents read before the write.
func (m *Manager) applyLive(ctx context.Context, app types.AppKind, raw json.RawMessage) (func(), error) {
	_, layout, err := m.layout(ctx)
	if err != nil {
		return nil, err
	}
	prev, ok, err := m.live.Backfill(app, layout)
	if err != nil {
		m.logger.Warn("cannot read live config before overwriting it", "app", app, "error", err)
	}
	if !ok {
		prev = nil
	}
	if err := m.live.Apply(app, layout, raw); err != nil {
		return nil, err
	}
	return func() { m.restoreLive(app, layout, prev) }, nil
}
