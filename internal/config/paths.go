// Package config provides configuration paths and the settings file for ccswitch.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName is the application name used for directories.
	AppName = "cc-switch"
	// ConfigDirEnvVar overrides the configuration directory.
	ConfigDirEnvVar = "CCSWITCH_CONFIG_DIR"
	// ConfigFileName is the provider store file name.
	ConfigFileName = "config.json"
	// BackupFileName is the rolling pre-save backup of the store.
	BackupFileName = "config.json.bak"
	// SettingsFileName is the settings file name.
	SettingsFileName = "settings.json"
)

// Paths holds all the application paths.
type Paths struct {
	ConfigDir    string
	ConfigFile   string
	BackupFile   string
	SettingsFile string
}

// GetPaths returns the application paths under the default configuration directory.
func GetPaths() Paths {
	return PathsIn(getConfigDir())
}

// PathsIn returns the application paths rooted at dir. An empty dir
// selects the default configuration directory.
func PathsIn(dir string) Paths {
	if dir == "" {
		dir = getConfigDir()
	}
	return Paths{
		ConfigDir:    dir,
		ConfigFile:   filepath.Join(dir, ConfigFileName),
		BackupFile:   filepath.Join(dir, BackupFileName),
		SettingsFile: filepath.Join(dir, SettingsFileName),
	}
}

// getConfigDir returns the configuration directory path, ~/.cc-switch by default.
func getConfigDir() string {
	// Check for explicit override
	if dir := os.Getenv(ConfigDirEnvVar); dir != "" {
		return dir
	}

	if home := homeDir(); home != "" {
		return filepath.Join(home, "."+AppName)
	}

	// Last resort fallback
	return filepath.Join(".", "."+AppName)
}

// homeDir returns the user's home directory, or "" if it cannot be determined.
func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return ""
}

// EnsureDirs creates the configuration directory if it doesn't exist.
func (p Paths) EnsureDirs() error {
	return os.MkdirAll(p.ConfigDir, 0700)
}
