package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/xabinapal/ccswitch/internal/fsx"
	"github.com/xabinapal/ccswitch/internal/types"
)

// parseLegacy decodes a version 1 file: one registry object at the top
// level with no version or settings wrapper.
func parseLegacy(data []byte) (*types.Registry, bool) {
	if !gjson.ValidBytes(data) {
		return nil, false
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() || doc.Get("version").Exists() || doc.Get("settings").Exists() {
		return nil, false
	}
	if !doc.Get("providers").IsObject() || doc.Get("current").Type != gjson.String {
		return nil, false
	}

	r := types.NewRegistry()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, false
	}
	if r.Providers == nil {
		r.Providers = map[string]types.Provider{}
	}
	return r, true
}

// BackupName returns the file name of a migration backup taken at unix seconds.
func BackupName(unix int64) string {
	return fmt.Sprintf("config.v%d.backup.%d.json", types.LegacyVersion, unix)
}

// migrate wraps a legacy registry as the claude registry of a current
// store, backs up the original bytes and persists the result.
func (s *Store) migrate(original []byte, legacy *types.Registry) (*types.ConfigStore, error) {
	cs := types.DefaultConfigStore()
	cs.Registries[types.AppClaude] = legacy
	s.repair(cs)

	backup := filepath.Join(s.paths.ConfigDir, BackupName(s.now().Unix()))
	if err := fsx.WriteFileAtomic(backup, original, 0600); err != nil {
		s.logger.Warn("failed to back up legacy config", "path", backup, "error", err)
	} else {
		s.logger.Info("backed up legacy config", "path", backup)
	}

	if err := s.Save(cs); err != nil {
		return nil, err
	}
	s.logger.Info("migrated config to current version",
		"from", types.LegacyVersion, "to", types.CurrentVersion, "providers", legacy.Len())
	return cs, nil
}
