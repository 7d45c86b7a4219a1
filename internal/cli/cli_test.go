package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/xabinapal/ccswitch/internal/environment"
	"github.com/xabinapal/ccswitch/internal/notify"
	"github.com/xabinapal/ccswitch/internal/provider"
	"github.com/xabinapal/ccswitch/internal/types"
)

type testCLI struct {
	home      string
	configDir string
	stdin     string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	return &testCLI{
		home:      t.TempDir(),
		configDir: t.TempDir(),
	}
}

// run executes one command on a fresh CLI, the way a shell invocation would.
func (tc *testCLI) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	home := tc.home
	resolver := environment.NewResolver(environment.WithHomeDir(func() (string, error) { return home, nil }))

	c := New(
		WithOutput(&out, &errOut),
		WithInput(strings.NewReader(tc.stdin)),
		WithManagerOptions(provider.WithResolver(resolver), provider.WithNotifier(notify.Nop())),
	)
	err := c.Execute(context.Background(), append([]string{"--config-dir", tc.configDir}, args...))
	return out.String(), err
}

func (tc *testCLI) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := tc.run(t, args...)
	if err != nil {
		t.Fatalf("%s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (tc *testCLI) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(tc.home, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func (tc *testCLI) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(tc.home, rel))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestProviderAddListShow(t *testing.T) {
	tc := newTestCLI(t)
	file := tc.write(t, "p.json", `{"env":{"ANTHROPIC_AUTH_TOKEN":"sk-ant-0123456789abcdef"}}`)

	out := tc.mustRun(t, "provider", "add", "claude", "--name", "My Proxy", "--file", file, "--category", "third_party")
	if !strings.Contains(out, "(my-proxy)") {
		t.Errorf("add output = %q", out)
	}

	// Adding the same id again fails
	if _, err := tc.run(t, "provider", "add", "claude", "--name", "x", "--id", "my-proxy", "--file", file); err == nil {
		t.Error("duplicate id should fail")
	}

	out = tc.mustRun(t, "provider", "list", "claude", "-o", "json")
	var list ProviderListOutput
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid list output: %v\n%s", err, out)
	}
	if len(list.Providers) != 1 || list.Providers[0].ID != "my-proxy" || list.Providers[0].Category != "third_party" {
		t.Errorf("list = %+v", list)
	}
	if list.Providers[0].SettingsConfig != nil {
		t.Error("list should not include settings")
	}

	out = tc.mustRun(t, "provider", "show", "claude", "my-proxy")
	if strings.Contains(out, "sk-ant-0123456789abcdef") {
		t.Errorf("secret not masked: %s", out)
	}
	if !strings.Contains(out, "sk-a****cdef") {
		t.Errorf("masked secret missing: %s", out)
	}

	out = tc.mustRun(t, "provider", "show", "claude", "my-proxy", "--reveal")
	if !strings.Contains(out, "sk-ant-0123456789abcdef") {
		t.Errorf("--reveal should show the secret: %s", out)
	}
}

func TestProviderAddFromYAMLStdin(t *testing.T) {
	tc := newTestCLI(t)
	tc.stdin = "model: sonnet\nenv:\n  ANTHROPIC_BASE_URL: https://proxy.example.com\n"

	tc.mustRun(t, "provider", "add", "claude", "--name", "staging", "--file", "-")

	out := tc.mustRun(t, "provider", "show", "claude", "staging", "-o", "yaml")
	var view struct {
		SettingsConfig map[string]any `yaml:"settings_config"`
	}
	if err := yaml.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("invalid yaml output: %v\n%s", err, out)
	}
	if view.SettingsConfig["model"] != "sonnet" {
		t.Errorf("settings = %v", view.SettingsConfig)
	}
}

func TestProviderUseAndRemove(t *testing.T) {
	tc := newTestCLI(t)
	a := tc.write(t, "a.json", `{"model":"a"}`)
	b := tc.write(t, "b.json", `{"model":"b"}`)
	tc.mustRun(t, "provider", "add", "claude", "--name", "a", "--file", a)
	tc.mustRun(t, "provider", "add", "claude", "--name", "b", "--file", b)

	out := tc.mustRun(t, "provider", "use", "claude", "a")
	if !strings.Contains(out, `Switched claude to provider "a"`) {
		t.Errorf("use output = %q", out)
	}
	if !strings.Contains(tc.read(t, filepath.Join(".claude", "settings.json")), `"a"`) {
		t.Error("live file not written")
	}

	if _, err := tc.run(t, "provider", "remove", "claude", "a"); !errors.Is(err, types.ErrInvalidOperation) {
		t.Errorf("removing current error = %v, want ErrInvalidOperation", err)
	}
	tc.mustRun(t, "provider", "remove", "claude", "b")
	if _, err := tc.run(t, "provider", "remove", "claude", "b"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("second remove error = %v, want ErrNotFound", err)
	}
}

func TestProviderEdit(t *testing.T) {
	tc := newTestCLI(t)
	a := tc.write(t, "a.json", `{"model":"a"}`)
	tc.mustRun(t, "provider", "add", "claude", "--name", "a", "--file", a, "--website", "https://a.example.com")
	tc.mustRun(t, "provider", "use", "claude", "a")

	a2 := tc.write(t, "a2.json", `{"model":"a2"}`)
	tc.mustRun(t, "provider", "edit", "claude", "a", "--name", "Alpha", "--file", a2, "--website", "")

	out := tc.mustRun(t, "provider", "show", "claude", "a", "-o", "json")
	var view ProviderView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatal(err)
	}
	if view.Name != "Alpha" || view.WebsiteURL != "" {
		t.Errorf("view = %+v", view)
	}
	// Editing the current provider rewrites the live file
	if !strings.Contains(tc.read(t, filepath.Join(".claude", "settings.json")), `"a2"`) {
		t.Error("live file not updated")
	}
}

func TestProviderImport(t *testing.T) {
	tc := newTestCLI(t)
	tc.write(t, filepath.Join(".claude", "settings.json"), `{"model":"x"}`)

	out := tc.mustRun(t, "provider", "import", "claude")
	if !strings.Contains(out, "Imported") {
		t.Errorf("import output = %q", out)
	}
	out = tc.mustRun(t, "provider", "import", "claude")
	if !strings.Contains(out, "nothing imported") {
		t.Errorf("second import output = %q", out)
	}
}

func TestCodexAddFromFiles(t *testing.T) {
	tc := newTestCLI(t)
	auth := tc.write(t, "auth.json", `{"OPENAI_API_KEY":"sk"}`)
	config := tc.write(t, "config.toml", "model = \"o3\"\n")

	tc.mustRun(t, "provider", "add", "codex", "--name", "work", "--auth", auth, "--config", config)
	tc.mustRun(t, "provider", "use", "codex", "work")

	if got := tc.read(t, filepath.Join(".codex", "config.toml")); got != "model = \"o3\"\n" {
		t.Errorf("config.toml = %q", got)
	}

	// --auth is codex only
	if _, err := tc.run(t, "provider", "add", "claude", "--name", "x", "--auth", auth); err == nil {
		t.Error("--auth for claude should fail")
	}
}

func TestStatusCommand(t *testing.T) {
	tc := newTestCLI(t)
	tc.write(t, filepath.Join(".claude", "settings.json"), `{}`)

	out := tc.mustRun(t, "status", "-o", "json")
	var status StatusOutput
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("invalid status output: %v\n%s", err, out)
	}
	if len(status.Apps) != len(types.AppKinds) {
		t.Fatalf("apps = %+v", status.Apps)
	}
	for _, a := range status.Apps {
		switch a.App {
		case types.AppClaude:
			if !a.Exists {
				t.Error("claude settings should exist")
			}
		case types.AppCodex:
			if a.Exists || a.Path != filepath.Join(tc.home, ".codex") {
				t.Errorf("codex status = %+v", a)
			}
		}
	}
}

func TestStatusReportsMissingDistro(t *testing.T) {
	tc := newTestCLI(t)
	tc.mustRun(t, "settings", "set", "--target", "wsl")

	out := tc.mustRun(t, "status", "claude", "-o", "json")
	var status StatusOutput
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatal(err)
	}
	if status.TargetEnv != types.TargetWSL || status.Apps[0].Error == "" {
		t.Errorf("status = %+v", status)
	}
}

func TestSettingsSetAndShow(t *testing.T) {
	tc := newTestCLI(t)

	if _, err := tc.run(t, "settings", "set"); err == nil {
		t.Error("set without flags should fail")
	}
	if _, err := tc.run(t, "settings", "set", "--target", "mars"); err == nil {
		t.Error("invalid target should fail")
	}

	tc.mustRun(t, "settings", "set", "--target", "wsl", "--distro", "Ubuntu", "--notify")

	out := tc.mustRun(t, "settings", "show", "-o", "json")
	var s types.Settings
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatal(err)
	}
	if s.TargetEnv != types.TargetWSL || s.Distro() != "Ubuntu" || !s.NotifyOnSwitch {
		t.Errorf("settings = %+v", s)
	}
	if !s.ShowInTray {
		t.Error("unchanged setting lost its default")
	}

	tc.mustRun(t, "settings", "set", "--distro", "")
	out = tc.mustRun(t, "settings", "show")
	if !strings.Contains(out, "WSL distro:                 -") {
		t.Errorf("distro not cleared: %s", out)
	}
}

func TestWSLDistrosOffWindows(t *testing.T) {
	tc := newTestCLI(t)

	out := tc.mustRun(t, "wsl", "distros", "-o", "json")
	var distros WSLDistrosOutput
	if err := json.Unmarshal([]byte(out), &distros); err != nil {
		t.Fatal(err)
	}
	if len(distros.Distros) != 0 {
		t.Errorf("distros = %v", distros.Distros)
	}
}

func TestConfigPath(t *testing.T) {
	tc := newTestCLI(t)

	out := tc.mustRun(t, "config", "path", "-o", "json")
	var paths configPathOutput
	if err := json.Unmarshal([]byte(out), &paths); err != nil {
		t.Fatal(err)
	}
	if paths.ConfigDir != tc.configDir || paths.ConfigExists {
		t.Errorf("paths = %+v", paths)
	}
}

func TestEnvironmentBinding(t *testing.T) {
	tc := newTestCLI(t)
	t.Setenv("CCSWITCH_OUTPUT", "json")

	out := tc.mustRun(t, "settings", "show")
	if !json.Valid([]byte(out)) {
		t.Errorf("CCSWITCH_OUTPUT=json not honoured: %s", out)
	}

	t.Setenv("CCSWITCH_LOG_LEVEL", "verbose")
	if _, err := tc.run(t, "settings", "show"); err == nil {
		t.Error("invalid CCSWITCH_LOG_LEVEL should fail")
	}
}

func TestVersionCommand(t *testing.T) {
	tc := newTestCLI(t)

	out := tc.mustRun(t, "version")
	if !strings.HasPrefix(out, "ccswitch ") {
		t.Errorf("version output = %q", out)
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "json kept verbatim", input: ` {"b":1, "a":2} `, want: `{"b":1, "a":2}`},
		{name: "yaml mapping", input: "a: 1\nb: x\n", want: `{"a":1,"b":"x"}`},
		{name: "yaml scalar", input: "just text", wantErr: types.ErrSerialization},
		{name: "empty", input: "  \n", wantErr: types.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePayload([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("decodePayload() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodePayload() failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("decodePayload() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewProviderID(t *testing.T) {
	none := func(string) bool { return false }

	if got := newProviderID("My Proxy", none); got != "my-proxy" {
		t.Errorf("newProviderID() = %q, want my-proxy", got)
	}

	taken := func(id string) bool { return id == "my-proxy" }
	if got := newProviderID("My Proxy", taken); !strings.HasPrefix(got, "my-proxy-") || len(got) != len("my-proxy-")+8 {
		t.Errorf("newProviderID() with collision = %q", got)
	}

	// Names without usable characters get a UUID
	if got := newProviderID("!!!", none); len(got) != 36 {
		t.Errorf("newProviderID() fallback = %q, want a UUID", got)
	}
}
