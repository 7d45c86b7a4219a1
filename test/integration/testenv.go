//go:build integration

// Package integration runs the ccswitch binary against isolated home and
// configuration directories.
package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestEnv is an isolated home directory plus ccswitch config directory.
type TestEnv struct {
	Home       string
	ConfigDir  string
	BinaryPath string
}

// NewTestEnv creates an isolated environment for one test.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	home := t.TempDir()
	return &TestEnv{
		Home:       home,
		ConfigDir:  filepath.Join(home, ".cc-switch"),
		BinaryPath: BinaryPath(t),
	}
}

// Run runs ccswitch with args and returns stdout, stderr and the exit error.
func (e *TestEnv) Run(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, e.BinaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+e.Home,
		"USERPROFILE="+e.Home,
		"CCSWITCH_CONFIG_DIR="+e.ConfigDir,
		"CCSWITCH_LOG_LEVEL=error",
	)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// MustRun runs ccswitch and fails the test on a non-zero exit.
func (e *TestEnv) MustRun(ctx context.Context, t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := e.Run(ctx, args...)
	if err != nil {
		t.Fatalf("ccswitch %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

// WriteFile writes a file below the home directory.
func (e *TestEnv) WriteFile(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.Home, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile reads a file below the home directory.
func (e *TestEnv) ReadFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.Home, rel))
	if err != nil {
		t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

// BinaryPath returns the path to the ccswitch binary.
func BinaryPath(t *testing.T) string {
	t.Helper()

	if path := os.Getenv("CCSWITCH_BINARY"); path != "" {
		return path
	}

	// Try to find it relative to the test directory
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get caller information")
	}

	// Go up from test/integration to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	binaryPath := filepath.Join(projectRoot, "bin", "ccswitch")

	if runtime.GOOS == "windows" {
		binaryPath += ".exe"
	}

	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("ccswitch binary not found at %s; build it or set CCSWITCH_BINARY", binaryPath)
	}

	return binaryPath
}
