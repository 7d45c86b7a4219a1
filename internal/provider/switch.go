package provider

import (
	"context"
	"encoding/json"

	"github.com/xabinapal/ccswitch/internal/environment"
	"github.com/xabinapal/ccswitch/internal/types"
)

// DefaultProviderID is the id and name given to an imported live config.
const DefaultProviderID = "default"

// SwitchProvider makes id the active provider of app.
//
// The live files are first read back into the outgoing provider so edits
// made outside ccswitch are kept, then the target payload is validated and
// written. The registry changes and is persisted only after the write
// succeeds; on failure it keeps its previous current provider. If the
// persist fails the live files are put back to what was read before the
// switch.
func (m *Manager) SwitchProvider(ctx context.Context, app types.AppKind, id string) error {
	m.liveMu.Lock()
	defer m.liveMu.Unlock()

	var (
		target   types.Provider
		outgoing string
	)
	if err := m.withRegistry(app, func(r *types.Registry) error {
		p, err := r.Get(id)
		if err != nil {
			return err
		}
		target = p.Clone()
		outgoing = r.Current
		return nil
	}); err != nil {
		return err
	}

	settings, layout, err := m.layout(ctx)
	if err != nil {
		return err
	}

	var backfill json.RawMessage
	if outgoing != "" {
		raw, ok, err := m.live.Backfill(app, layout)
		if err != nil {
			return err
		}
		if ok {
			backfill = raw
		}
	}

	// Re-activating the current provider keeps its live edits, and the
	// live files already hold them.
	reactivate := outgoing == id && backfill != nil
	if reactivate {
		target.SettingsConfig = backfill
	} else if err := m.live.Apply(app, layout, target.SettingsConfig); err != nil {
		m.logger.Error("switch failed", "app", app, "id", id, "error", err)
		if settings.NotifyOnSwitch {
			if nerr := m.notifier.NotifyFailure(app, target.Name, err); nerr != nil {
				m.logger.Warn("failed to send notification", "error", nerr)
			}
		}
		return err
	}

	if err := m.mutateRegistry(app, func(r *types.Registry) error {
		if backfill != nil {
			if p, ok := r.Providers[outgoing]; ok {
				p.SettingsConfig = append(json.RawMessage(nil), backfill...)
				r.Upsert(p)
			}
		}
		if !r.Has(id) {
			m.logger.Warn("switched provider was removed concurrently, restoring it", "app", app, "id", id)
			r.Upsert(target)
		}
		r.SetCurrent(id)
		return nil
	}); err != nil {
		if !reactivate {
			m.restoreLive(app, layout, backfill)
		}
		return err
	}

	m.logger.Info("switched provider", "app", app, "from", outgoing, "to", id)
	if settings.NotifyOnSwitch {
		if err := m.notifier.NotifySwitch(app, target.Name); err != nil {
			m.logger.Warn("failed to send notification", "error", err)
		}
	}
	return nil
}

// restoreLive writes prev back to the live files of app. Without a
// previous payload the live files keep the new contents.
func (m *Manager) restoreLive(app types.AppKind, layout environment.Layout, prev json.RawMessage) {
	if prev == nil {
		m.logger.Warn("no previous live config to restore", "app", app)
		return
	}
	if err := m.live.Apply(app, layout, prev); err != nil {
		m.logger.Error("failed to restore live config", "app", app, "error", err)
	}
}

// ImportDefault creates a provider named "default" from the live config of
// app and makes it current. It does nothing when the registry already has
// providers, and reports whether an import happened.
func (m *Manager) ImportDefault(ctx context.Context, app types.AppKind) (bool, error) {
	m.liveMu.Lock()
	defer m.liveMu.Unlock()

	var empty bool
	if err := m.withRegistry(app, func(r *types.Registry) error {
		empty = r.Len() == 0
		return nil
	}); err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}

	_, layout, err := m.layout(ctx)
	if err != nil {
		return false, err
	}
	raw, err := m.live.Read(app, layout)
	if err != nil {
		return false, err
	}

	imported := false
	err = m.mutateRegistry(app, func(r *types.Registry) error {
		if r.Len() > 0 {
			return nil
		}
		p := types.NewProvider(DefaultProviderID, DefaultProviderID, raw)
		ms := m.now().UnixMilli()
		p.CreatedAt = &ms
		r.Upsert(p)
		r.SetCurrent(p.ID)
		imported = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if imported {
		m.logger.Info("imported live config", "app", app, "id", DefaultProviderID)
	}
	return imported, nil
}
