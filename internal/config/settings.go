package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/xabinapal/ccswitch/internal/fsx"
	"github.com/xabinapal/ccswitch/internal/types"
)

// SettingsPatch describes a partial settings update. Nil fields keep their
// current value; an empty WSLDistro clears the distro.
type SettingsPatch struct {
	ShowInTray            *bool
	MinimizeToTrayOnClose *bool
	TargetEnv             *string
	WSLDistro             *string
	NotifyOnSwitch        *bool
}

// Apply returns s with the patch applied.
func (p SettingsPatch) Apply(s types.Settings) types.Settings {
	out := s.Clone()
	if p.ShowInTray != nil {
		out.ShowInTray = *p.ShowInTray
	}
	if p.MinimizeToTrayOnClose != nil {
		out.MinimizeToTrayOnClose = *p.MinimizeToTrayOnClose
	}
	if p.TargetEnv != nil {
		out.TargetEnv = types.ParseTargetEnv(*p.TargetEnv)
	}
	if p.WSLDistro != nil {
		if d := strings.TrimSpace(*p.WSLDistro); d != "" {
			out.WSLDistro = &d
		} else {
			out.WSLDistro = nil
		}
	}
	if p.NotifyOnSwitch != nil {
		out.NotifyOnSwitch = *p.NotifyOnSwitch
	}
	return out
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p == SettingsPatch{}
}

// LoadSettings reads the settings file. A missing, unreadable or
// unparseable file yields the defaults; individual fields that are missing
// or of the wrong type take their default value.
func LoadSettings(path string) types.Settings {
	// #nosec G304 - path is the settings file inside the config directory
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DefaultSettings()
	}
	return ParseSettings(data)
}

// ParseSettings decodes settings leniently, field by field.
func ParseSettings(data []byte) types.Settings {
	s := types.DefaultSettings()
	if !gjson.ValidBytes(data) {
		return s
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return s
	}

	if v := doc.Get("showInTray"); v.IsBool() {
		s.ShowInTray = v.Bool()
	}
	if v := doc.Get("minimizeToTrayOnClose"); v.IsBool() {
		s.MinimizeToTrayOnClose = v.Bool()
	}
	if v := doc.Get("targetEnv"); v.Type == gjson.String {
		s.TargetEnv = types.ParseTargetEnv(v.String())
	}
	if v := doc.Get("wslDistro"); v.Type == gjson.String {
		if d := strings.TrimSpace(v.String()); d != "" {
			s.WSLDistro = &d
		}
	}
	if v := doc.Get("notifyOnSwitch"); v.IsBool() {
		s.NotifyOnSwitch = v.Bool()
	}
	return s
}

// SaveSettings writes the settings file atomically as indented JSON.
func SaveSettings(path string, s types.Settings) error {
	if path == "" {
		return errors.New("settings file path not set")
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal settings: %v", types.ErrSerialization, err)
	}

	if err := fsx.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write settings file: %v", types.ErrIO, err)
	}
	return nil
}
