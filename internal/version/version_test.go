package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	// GoVersion should match runtime
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", info.GoVersion, runtime.Version())
	}

	// Platform should contain OS and arch
	expectedPlatform := runtime.GOOS + "/" + runtime.GOARCH
	if info.Platform != expectedPlatform {
		t.Errorf("Platform = %s, want %s", info.Platform, expectedPlatform)
	}

	// Version should be set (even if to "dev")
	if info.Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestInfoString(t *testing.T) {
	info := Get()
	str := info.String()

	if !strings.HasPrefix(str, Name+" ") {
		t.Errorf("String() should start with %q, got %s", Name, str)
	}

	// Should contain commit and build date
	if !strings.Contains(str, "("+info.Commit+")") || !strings.Contains(str, info.Date) {
		t.Errorf("String() should contain commit and date, got %s", str)
	}

	// Should contain version
	if !strings.Contains(str, info.Version) {
		t.Errorf("String() should contain version %s, got %s", info.Version, str)
	}

	// Should contain platform
	if !strings.Contains(str, info.Platform) {
		t.Errorf("String() should contain platform %s, got %s", info.Platform, str)
	}
}

func TestInfoShort(t *testing.T) {
	info := Get()
	short := info.Short()

	if short != Name+" "+info.Version {
		t.Errorf("Short() = %q, want %q", short, Name+" "+info.Version)
	}

	// Should contain version
	if !strings.Contains(short, info.Version) {
		t.Errorf("Short() should contain version %s, got %s", info.Version, short)
	}
}

func TestVersionVariables(t *testing.T) {
	// Default values
	if Version == "" {
		t.Error("Version variable should have a default value")
	}
	if Commit == "" {
		t.Error("Commit variable should have a default value")
	}
	if Date == "" {
		t.Error("Date variable should have a default value")
	}
}
