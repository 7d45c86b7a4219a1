package types

import "strings"

// TargetEnv selects where the managed applications' live files are located.
type TargetEnv string

const (
	// TargetLocal uses the host user's home directory.
	TargetLocal TargetEnv = "windows"
	// TargetWSL uses the home directory of a WSL distribution.
	TargetWSL TargetEnv = "wsl"
)

// ParseTargetEnv parses a target environment name. Anything other than
// "wsl" selects the local environment.
func ParseTargetEnv(s string) TargetEnv {
	if strings.EqualFold(strings.TrimSpace(s), string(TargetWSL)) {
		return TargetWSL
	}
	return TargetLocal
}

// Settings holds user preferences and the runtime environment selection.
type Settings struct {
	// ShowInTray shows the tray icon.
	ShowInTray bool `json:"showInTray" yaml:"show_in_tray"`
	// MinimizeToTrayOnClose hides the window instead of quitting.
	MinimizeToTrayOnClose bool `json:"minimizeToTrayOnClose" yaml:"minimize_to_tray_on_close"`
	// TargetEnv selects local or WSL live files.
	TargetEnv TargetEnv `json:"targetEnv" yaml:"target_env"`
	// WSLDistro is the distribution used when TargetEnv is TargetWSL.
	WSLDistro *string `json:"wslDistro,omitempty" yaml:"wsl_distro,omitempty"`
	// NotifyOnSwitch sends a desktop notification after a switch.
	NotifyOnSwitch bool `json:"notifyOnSwitch" yaml:"notify_on_switch"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ShowInTray:            true,
		MinimizeToTrayOnClose: true,
		TargetEnv:             TargetLocal,
	}
}

// Distro returns the configured WSL distro name, or "" when unset.
func (s Settings) Distro() string {
	if s.WSLDistro == nil {
		return ""
	}
	return strings.TrimSpace(*s.WSLDistro)
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	out := s
	if s.WSLDistro != nil {
		v := *s.WSLDistro
		out.WSLDistro = &v
	}
	return out
}
