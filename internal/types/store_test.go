package types

import (
	"encoding/json"
	"testing"
)

func TestDefaultConfigStore(t *testing.T) {
	s := DefaultConfigStore()

	if s.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", s.Version, CurrentVersion)
	}
	for _, app := range AppKinds {
		r, err := s.Registry(app)
		if err != nil {
			t.Fatalf("Registry(%s) failed: %v", app, err)
		}
		if r.Len() != 0 || r.Current != "" {
			t.Errorf("Registry(%s) not empty", app)
		}
	}
	if !s.Settings.ShowInTray {
		t.Error("expected ShowInTray to be true by default")
	}
}

func TestConfigStoreJSON(t *testing.T) {
	s := DefaultConfigStore()
	r, _ := s.Registry(AppClaude)
	r.Upsert(NewProvider("a", "A", json.RawMessage(`{"model":"x"}`)))
	r.SetCurrent("a")

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	for _, key := range []string{"version", "settings", "claude", "codex"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	var loaded ConfigStore
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal(ConfigStore) failed: %v", err)
	}
	lr, _ := loaded.Registry(AppClaude)
	if lr.Current != "a" || !lr.Has("a") {
		t.Errorf("claude registry not restored: %+v", lr)
	}
}

func TestConfigStoreUnmarshalDefaults(t *testing.T) {
	var s ConfigStore
	if err := json.Unmarshal([]byte(`{"claude":{"providers":{},"current":""}}`), &s); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	if s.Version != CurrentVersion {
		t.Errorf("Version = %d, want default %d", s.Version, CurrentVersion)
	}
	if _, err := s.Registry(AppCodex); err != nil {
		t.Errorf("codex registry should be created: %v", err)
	}
}

func TestConfigStorePreservesUnknownApps(t *testing.T) {
	input := `{"version":2,"claude":{"providers":{},"current":""},"gemini":{"providers":{},"current":"g"}}`

	var s ConfigStore
	if err := json.Unmarshal([]byte(input), &s); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	data, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var doc map[string]json.RawMessage
	_ = json.Unmarshal(data, &doc)
	if _, ok := doc["gemini"]; !ok {
		t.Errorf("unknown registry dropped: %s", data)
	}
}

func TestConfigStoreUnmarshalRejectsBadRegistry(t *testing.T) {
	var s ConfigStore
	if err := json.Unmarshal([]byte(`{"version":2,"claude":"nope"}`), &s); err == nil {
		t.Error("expected error for non-object registry")
	}
}
