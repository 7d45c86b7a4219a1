package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xabinapal/ccswitch/internal/config"
	"github.com/xabinapal/ccswitch/internal/types"
)

const legacyFile = `{
  "providers": {
    "p1": {"id": "p1", "name": "Official", "settingsConfig": {"env": {"ANTHROPIC_AUTH_TOKEN": "sk-1"}}},
    "p2": {"id": "p2", "name": "Proxy", "settingsConfig": {"env": {"ANTHROPIC_BASE_URL": "https://proxy"}}, "websiteUrl": "https://proxy"}
  },
  "current": "p2"
}`

func TestMigrateLegacy(t *testing.T) {
	dir := t.TempDir()
	now := time.Unix(1712345678, 0)
	s := New(config.PathsIn(dir), WithClock(func() time.Time { return now }))
	if err := os.WriteFile(s.Paths().ConfigFile, []byte(legacyFile), 0600); err != nil {
		t.Fatal(err)
	}

	cs, err := s.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cs.Version != types.CurrentVersion {
		t.Errorf("Version = %d, want %d", cs.Version, types.CurrentVersion)
	}

	claude, _ := cs.Registry(types.AppClaude)
	if claude.Len() != 2 || claude.Current != "p2" {
		t.Errorf("claude registry = %+v", claude)
	}
	p2, err := claude.Get("p2")
	if err != nil || p2.WebsiteURL == nil || *p2.WebsiteURL != "https://proxy" {
		t.Errorf("provider p2 not carried over: %+v, %v", p2, err)
	}

	codex, _ := cs.Registry(types.AppCodex)
	if codex.Len() != 0 || codex.Current != "" {
		t.Errorf("codex registry should be empty: %+v", codex)
	}

	// Backup holds the original bytes
	backup, err := os.ReadFile(filepath.Join(dir, "config.v1.backup.1712345678.json"))
	if err != nil {
		t.Fatalf("migration backup missing: %v", err)
	}
	if string(backup) != legacyFile {
		t.Error("migration backup does not match the original file")
	}

	// Migrated store is persisted in the current schema
	data, err := os.ReadFile(s.Paths().ConfigFile)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("persisted store is not JSON: %v", err)
	}
	for _, key := range []string{"version", "settings", "claude", "codex"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("persisted store missing %q", key)
		}
	}

	// A second load reads the current schema without another migration
	if _, err := s.Load(); err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "config.v1.backup.*.json"))
	if len(matches) != 1 {
		t.Errorf("expected one migration backup, found %d", len(matches))
	}
}

func TestParseLegacy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "legacy", input: `{"providers":{},"current":""}`, want: true},
		{name: "current schema", input: `{"version":2,"claude":{"providers":{},"current":""}}`, want: false},
		{name: "wrapper without version", input: `{"settings":{},"providers":{},"current":""}`, want: false},
		{name: "current not a string", input: `{"providers":{},"current":1}`, want: false},
		{name: "providers not an object", input: `{"providers":[],"current":""}`, want: false},
		{name: "invalid json", input: `{`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := parseLegacy([]byte(tt.input))
			if got != tt.want {
				t.Errorf("parseLegacy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackupName(t *testing.T) {
	if got := BackupName(42); got != "config.v1.backup.42.json" {
		t.Errorf("BackupName() = %q", got)
	}
}
