package types

import (
	"encoding/json"
	"fmt"
)

const (
	// LegacyVersion is the bare single-registry schema.
	LegacyVersion = 1
	// CurrentVersion is the wrapper schema with settings and named registries.
	CurrentVersion = 2
)

// ConfigStore is the persisted document: settings plus one registry per application.
type ConfigStore struct {
	Version    int
	Settings   Settings
	Registries map[AppKind]*Registry

	// extra keeps registries of applications this build does not manage so
	// that a save does not drop them.
	extra map[string]json.RawMessage
}

// DefaultConfigStore returns a current-version store with empty registries.
func DefaultConfigStore() *ConfigStore {
	s := &ConfigStore{
		Version:    CurrentVersion,
		Settings:   DefaultSettings(),
		Registries: map[AppKind]*Registry{},
	}
	s.EnsureApps()
	return s
}

// EnsureApps adds an empty registry for every managed application that lacks one.
func (s *ConfigStore) EnsureApps() {
	if s.Registries == nil {
		s.Registries = map[AppKind]*Registry{}
	}
	for _, app := range AppKinds {
		r, ok := s.Registries[app]
		if !ok || r == nil {
			s.Registries[app] = NewRegistry()
			continue
		}
		if r.Providers == nil {
			r.Providers = map[string]Provider{}
		}
	}
}

// Registry returns the registry for an application.
func (s *ConfigStore) Registry(app AppKind) (*Registry, error) {
	r, ok := s.Registries[app]
	if !ok || r == nil {
		return nil, fmt.Errorf("%w: %s", ErrAppKindNotFound, app)
	}
	return r, nil
}

// Clone returns a deep copy of the store.
func (s *ConfigStore) Clone() *ConfigStore {
	out := &ConfigStore{
		Version:    s.Version,
		Settings:   s.Settings.Clone(),
		Registries: make(map[AppKind]*Registry, len(s.Registries)),
	}
	for app, r := range s.Registries {
		out.Registries[app] = r.Clone()
	}
	if len(s.extra) > 0 {
		out.extra = make(map[string]json.RawMessage, len(s.extra))
		for k, v := range s.extra {
			out.extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// MarshalJSON encodes the store with registries flattened next to version and settings.
func (s *ConfigStore) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.Registries)+len(s.extra)+2)
	for k, v := range s.extra {
		doc[k] = v
	}
	for app, r := range s.Registries {
		doc[string(app)] = r
	}
	doc["version"] = s.Version
	doc["settings"] = s.Settings
	return json.Marshal(doc)
}

// UnmarshalJSON decodes the current-version schema. Missing version and
// settings take their defaults; every other key must be a registry.
func (s *ConfigStore) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("config store is not a JSON object")
	}

	out := ConfigStore{
		Version:    CurrentVersion,
		Settings:   DefaultSettings(),
		Registries: map[AppKind]*Registry{},
	}
	for key, raw := range doc {
		switch key {
		case "version":
			if err := json.Unmarshal(raw, &out.Version); err != nil {
				return fmt.Errorf("invalid version: %w", err)
			}
		case "settings":
			if err := json.Unmarshal(raw, &out.Settings); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}
		default:
			var r Registry
			if err := json.Unmarshal(raw, &r); err != nil {
				return fmt.Errorf("invalid registry %q: %w", key, err)
			}
			if app, err := ParseAppKind(key); err == nil && string(app) == key {
				out.Registries[app] = &r
				continue
			}
			if out.extra == nil {
				out.extra = map[string]json.RawMessage{}
			}
			out.extra[key] = append(json.RawMessage(nil), raw...)
		}
	}
	out.EnsureApps()
	*s = out
	return nil
}
