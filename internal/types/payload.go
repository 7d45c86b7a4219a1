package types

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Payload is the typed view of a provider's settingsConfig. The concrete
// type is selected by the application kind.
type Payload interface {
	// Kind returns the application the payload belongs to.
	Kind() AppKind
	// Encode serialises the payload into its settingsConfig form.
	Encode() (json.RawMessage, error)
}

// ClaudePayload is an arbitrary settings document written verbatim to settings.json.
type ClaudePayload struct {
	Settings json.RawMessage
}

// Kind implements Payload.
func (ClaudePayload) Kind() AppKind { return AppClaude }

// Encode implements Payload.
func (p ClaudePayload) Encode() (json.RawMessage, error) {
	if !json.Valid(p.Settings) {
		return nil, fmt.Errorf("%w: claude settings are not valid JSON", ErrSerialization)
	}
	return append(json.RawMessage(nil), p.Settings...), nil
}

// CodexPayload holds the auth.json document and the config.toml text.
type CodexPayload struct {
	Auth   json.RawMessage
	Config string
}

// Kind implements Payload.
func (CodexPayload) Kind() AppKind { return AppCodex }

// Encode implements Payload.
func (p CodexPayload) Encode() (json.RawMessage, error) {
	if !json.Valid(p.Auth) {
		return nil, fmt.Errorf("%w: codex auth is not valid JSON", ErrSerialization)
	}
	out, err := sjson.SetRawBytes([]byte(`{}`), "auth", p.Auth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	out, err = sjson.SetBytes(out, "config", p.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return out, nil
}

// ParsePayload decodes settingsConfig for the given application. Codex
// payloads must carry both "auth" and a string "config".
func ParsePayload(app AppKind, raw json.RawMessage) (Payload, error) {
	switch app {
	case AppClaude:
		if !json.Valid(raw) {
			return nil, fmt.Errorf("%w: claude settings are not valid JSON", ErrSerialization)
		}
		return ClaudePayload{Settings: append(json.RawMessage(nil), raw...)}, nil
	case AppCodex:
		if !gjson.ValidBytes(raw) {
			return nil, fmt.Errorf("%w: codex settings are not valid JSON", ErrSerialization)
		}
		auth := gjson.GetBytes(raw, "auth")
		if !auth.Exists() {
			return nil, fmt.Errorf("%w: codex provider is missing auth", ErrMissingField)
		}
		cfg := gjson.GetBytes(raw, "config")
		if !cfg.Exists() {
			return nil, fmt.Errorf("%w: codex provider is missing config", ErrMissingField)
		}
		if cfg.Type != gjson.String {
			return nil, fmt.Errorf("%w: codex config must be a string", ErrMissingField)
		}
		return CodexPayload{Auth: json.RawMessage(auth.Raw), Config: cfg.String()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAppKindNotFound, app)
	}
}
