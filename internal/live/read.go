package live

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/xabinapal/ccswitch/internal/environment"
	"github.com/xabinapal/ccswitch/internal/types"
)

// Read returns the live configuration of app as a settingsConfig payload.
// It fails with ErrLiveConfigMissing when the primary live file is absent.
// A missing codex config.toml reads as empty text.
func (w *Writer) Read(app types.AppKind, layout environment.Layout) (json.RawMessage, error) {
	switch app {
	case types.AppClaude:
		path := layout.ClaudeSettingsPath()
		data, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: %s is not valid JSON", types.ErrSerialization, path)
		}
		return json.RawMessage(data), nil

	case types.AppCodex:
		authPath := layout.CodexAuthPath()
		auth, err := readFile(authPath)
		if err != nil {
			return nil, err
		}
		if !json.Valid(auth) {
			return nil, fmt.Errorf("%w: %s is not valid JSON", types.ErrSerialization, authPath)
		}

		config, err := readFile(layout.CodexConfigPath())
		if err != nil && !errors.Is(err, types.ErrLiveConfigMissing) {
			return nil, err
		}
		if err := validateTOML(string(config)); err != nil {
			return nil, err
		}

		return types.CodexPayload{Auth: json.RawMessage(auth), Config: string(config)}.Encode()

	default:
		return nil, fmt.Errorf("%w: %q", types.ErrAppKindNotFound, app)
	}
}

// Backfill captures the current live files of app so the outgoing provider
// keeps edits made outside ccswitch. ok is false when there is nothing to
// capture: the live files are absent or, for claude, not valid JSON. An
// unparseable codex auth.json is an error and aborts the switch.
func (w *Writer) Backfill(app types.AppKind, layout environment.Layout) (json.RawMessage, bool, error) {
	switch app {
	case types.AppClaude:
		path := layout.ClaudeSettingsPath()
		data, err := readFile(path)
		if errors.Is(err, types.ErrLiveConfigMissing) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if !json.Valid(data) {
			w.logger.Warn("live config is not valid JSON, skipping backfill", "app", app, "path", path)
			return nil, false, nil
		}
		return json.RawMessage(data), true, nil

	case types.AppCodex:
		authPath := layout.CodexAuthPath()
		auth, err := readFile(authPath)
		if errors.Is(err, types.ErrLiveConfigMissing) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if !json.Valid(auth) {
			return nil, false, fmt.Errorf("%w: %s is not valid JSON", types.ErrSerialization, authPath)
		}

		config, err := readFile(layout.CodexConfigPath())
		if err != nil && !errors.Is(err, types.ErrLiveConfigMissing) {
			return nil, false, err
		}

		raw, err := types.CodexPayload{Auth: json.RawMessage(auth), Config: string(config)}.Encode()
		if err != nil {
			return nil, false, err
		}
		return raw, true, nil

	default:
		return nil, false, fmt.Errorf("%w: %q", types.ErrAppKindNotFound, app)
	}
}

// readFile reads a live file, mapping a missing file to ErrLiveConfigMissing.
func readFile(path string) ([]byte, error) {
	// #nosec G304 - path is a live config file below the resolved home
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrLiveConfigMissing, path)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", types.ErrIO, path, err)
	}
	return data, nil
}
