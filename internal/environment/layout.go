package environment

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xabinapal/ccswitch/internal/fsx"
	"github.com/xabinapal/ccswitch/internal/types"
)

// Live file names below the home directory.
const (
	ClaudeDirName          = ".claude"
	ClaudeSettingsFileName = "settings.json"
	ClaudeLegacyFileName   = "claude.json"
	CodexDirName           = ".codex"
	CodexAuthFileName      = "auth.json"
	CodexConfigFileName    = "config.toml"
)

// Layout locates the live files below one home directory.
type Layout struct {
	Home string
}

// ClaudeDir returns the claude configuration directory.
func (l Layout) ClaudeDir() string {
	return filepath.Join(l.Home, ClaudeDirName)
}

// ClaudeSettingsPath returns the claude settings file. settings.json is
// preferred; claude.json is used when only the legacy file exists. The
// choice is made on every call.
func (l Layout) ClaudeSettingsPath() string {
	canonical := filepath.Join(l.ClaudeDir(), ClaudeSettingsFileName)
	if fsx.Exists(canonical) {
		return canonical
	}
	legacy := filepath.Join(l.ClaudeDir(), ClaudeLegacyFileName)
	if fsx.Exists(legacy) {
		return legacy
	}
	return canonical
}

// CodexDir returns the codex configuration directory.
func (l Layout) CodexDir() string {
	return filepath.Join(l.Home, CodexDirName)
}

// CodexAuthPath returns the codex auth.json path.
func (l Layout) CodexAuthPath() string {
	return filepath.Join(l.CodexDir(), CodexAuthFileName)
}

// CodexConfigPath returns the codex config.toml path.
func (l Layout) CodexConfigPath() string {
	return filepath.Join(l.CodexDir(), CodexConfigFileName)
}

// Dir returns the configuration directory of an application.
func (l Layout) Dir(app types.AppKind) string {
	if app == types.AppCodex {
		return l.CodexDir()
	}
	return l.ClaudeDir()
}

// Home resolves the home directory selected by settings. Local targets use
// the host home directory; WSL targets query the distro and return its home
// as a \\wsl$ UNC path.
func (r *Resolver) Home(ctx context.Context, settings types.Settings) (string, error) {
	if settings.TargetEnv != types.TargetWSL {
		home, err := r.homeDir()
		if err != nil {
			return "", fmt.Errorf("%w: cannot determine home directory: %v", types.ErrIO, err)
		}
		return home, nil
	}

	distro := settings.Distro()
	if distro == "" {
		return "", fmt.Errorf("%w: target environment is wsl", types.ErrMissingDistroConfig)
	}
	linuxHome, err := r.ResolveHome(ctx, distro)
	if err != nil {
		return "", err
	}
	return ToUNC(distro, linuxHome), nil
}

// Layout resolves the live file layout selected by settings.
func (r *Resolver) Layout(ctx context.Context, settings types.Settings) (Layout, error) {
	home, err := r.Home(ctx, settings)
	if err != nil {
		return Layout{}, err
	}
	r.logger.Debug("resolved live home", "target", settings.TargetEnv, "home", home)
	return Layout{Home: home}, nil
}
