package provider

import (
	"context"
	"fmt"
	"slices"

	"github.com/xabinapal/ccswitch/internal/config"
	"github.com/xabinapal/ccswitch/internal/live"
	"github.com/xabinapal/ccswitch/internal/types"
)

// ConfigStatus reports where the live config of app is and whether it exists.
func (m *Manager) ConfigStatus(ctx context.Context, app types.AppKind) (live.Status, error) {
	if !slices.Contains(types.AppKinds, app) {
		return live.Status{}, fmt.Errorf("%w: %q", types.ErrAppKindNotFound, app)
	}
	_, layout, err := m.layout(ctx)
	if err != nil {
		return live.Status{}, err
	}
	return m.live.Status(app, layout)
}

// ListRemoteDistros returns the installed WSL distributions, empty on hosts
// without WSL.
func (m *Manager) ListRemoteDistros(ctx context.Context) ([]string, error) {
	return m.resolver.ListDistros(ctx)
}

// ResolveRemoteHome returns the Linux home directory of a WSL distribution.
func (m *Manager) ResolveRemoteHome(ctx context.Context, distro string) (string, error) {
	return m.resolver.ResolveHome(ctx, distro)
}

// Settings reads the settings file. Missing or invalid values take defaults.
func (m *Manager) Settings() types.Settings {
	return config.LoadSettings(m.settingsPath)
}

// SaveSettings writes the settings file and mirrors the settings into the
// config store.
func (m *Manager) SaveSettings(s types.Settings) error {
	if err := config.SaveSettings(m.settingsPath, s); err != nil {
		return err
	}
	if err := m.mutate(func(cs *types.ConfigStore) error {
		cs.Settings = s.Clone()
		return nil
	}); err != nil {
		return err
	}
	m.logger.Info("saved settings", "target", s.TargetEnv, "distro", s.Distro())
	return nil
}

// UpdateSettings applies a partial update to the stored settings and
// returns the result.
func (m *Manager) UpdateSettings(patch config.SettingsPatch) (types.Settings, error) {
	s := patch.Apply(m.Settings())
	if err := m.SaveSettings(s); err != nil {
		return types.Settings{}, err
	}
	return s, nil
}
