package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/xabinapal/ccswitch/internal/types"
	"github.com/xabinapal/ccswitch/internal/utils"
)

// readInput reads a file, or stdin when path is "-".
func (cli *CLI) readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cli.stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read stdin: %v", types.ErrIO, err)
		}
		return data, nil
	}
	// #nosec G304 - path is given by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", types.ErrIO, path, err)
	}
	return data, nil
}

// decodePayload turns a JSON or YAML document into a settingsConfig
// payload. JSON input is kept byte for byte.
func decodePayload(data []byte) (json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", types.ErrMissingField)
	}
	if json.Valid(data) {
		return json.RawMessage(data), nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: payload is neither JSON nor YAML: %v", types.ErrSerialization, err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: payload must be a mapping", types.ErrSerialization)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot convert YAML payload: %v", types.ErrSerialization, err)
	}
	return out, nil
}

// payloadSource names where a provider payload comes from on the command line.
type payloadSource struct {
	file       string
	authFile   string
	configFile string
}

func (s payloadSource) empty() bool {
	return s.file == "" && s.authFile == "" && s.configFile == ""
}

// loadPayload builds the payload for app. A codex payload may be assembled from
// separate auth.json and config.toml files.
func (cli *CLI) loadPayload(app types.AppKind, src payloadSource) (json.RawMessage, error) {
	if src.file != "" {
		if src.authFile != "" || src.configFile != "" {
			return nil, fmt.Errorf("--file cannot be combined with --auth or --config")
		}
		data, err := cli.readInput(src.file)
		if err != nil {
			return nil, err
		}
		return decodePayload(data)
	}

	if app != types.AppCodex {
		return nil, fmt.Errorf("--auth and --config only apply to %s", types.AppCodex)
	}
	if src.authFile == "" {
		return nil, fmt.Errorf("%w: --auth is required with --config", types.ErrMissingField)
	}

	auth, err := cli.readInput(src.authFile)
	if err != nil {
		return nil, err
	}
	authJSON, err := decodePayload(auth)
	if err != nil {
		return nil, err
	}

	var configText string
	if src.configFile != "" {
		data, err := cli.readInput(src.configFile)
		if err != nil {
			return nil, err
		}
		configText = string(data)
	}
	return types.CodexPayload{Auth: authJSON, Config: configText}.Encode()
}

// newProviderID derives an id from the display name, falling back to a
// random UUID. A short random suffix resolves collisions.
func newProviderID(name string, exists func(id string) bool) string {
	id := utils.Slugify(name)
	if !utils.IsValidProviderID(id) {
		return uuid.NewString()
	}
	if exists(id) {
		return id + "-" + uuid.NewString()[:8]
	}
	return id
}
