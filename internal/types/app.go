// Package types provides shared types used across the application.
package types

import (
	"fmt"
	"strings"
)

// AppKind identifies one of the managed applications.
type AppKind string

const (
	// AppClaude is Claude Code, configured by a single settings.json.
	AppClaude AppKind = "claude"
	// AppCodex is Codex, configured by auth.json plus config.toml.
	AppCodex AppKind = "codex"
)

// AppKinds lists every managed application in display order.
var AppKinds = []AppKind{AppClaude, AppCodex}

// ParseAppKind converts user input into an AppKind.
func ParseAppKind(s string) (AppKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(AppClaude):
		return AppClaude, nil
	case string(AppCodex):
		return AppCodex, nil
	default:
		return "", fmt.Errorf("%w: %q (expected claude or codex)", ErrAppKindNotFound, s)
	}
}

// String implements fmt.Stringer.
func (a AppKind) String() string {
	return string(a)
}

// DisplayName returns the human-readable application name.
func (a AppKind) DisplayName() string {
	switch a {
	case AppClaude:
		return "Claude Code"
	case AppCodex:
		return "Codex"
	default:
		return string(a)
	}
}

// IsDualFile reports whether the application's live config spans two files.
func (a AppKind) IsDualFile() bool {
	return a == AppCodex
}
