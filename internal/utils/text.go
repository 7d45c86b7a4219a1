package utils

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// secretKeyHints mark JSON keys whose string values are masked for display.
var secretKeyHints = []string{"key", "token", "secret", "password", "auth"}

// Mask masks a sensitive string for display, showing only first and last few characters.
// E.g., "abc123xyz" -> "abc1****xyz"
func Mask(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

// ContainsAny checks if s contains any of the substrings (case-insensitive).
func ContainsAny(s string, substrings ...string) bool {
	sLower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(sLower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// MaskSecrets returns a copy of a JSON document with string values under
// secret-looking keys masked. Invalid JSON is returned unchanged.
func MaskSecrets(doc []byte) []byte {
	if !gjson.ValidBytes(doc) {
		return doc
	}

	var paths []string
	collectSecretPaths(gjson.ParseBytes(doc), "", &paths)

	out := append([]byte(nil), doc...)
	for _, p := range paths {
		masked, err := sjson.SetBytes(out, p, Mask(gjson.GetBytes(out, p).String()))
		if err == nil {
			out = masked
		}
	}
	return out
}

func collectSecretPaths(v gjson.Result, prefix string, paths *[]string) {
	if !v.IsObject() && !v.IsArray() {
		return
	}
	v.ForEach(func(key, value gjson.Result) bool {
		var path string
		if v.IsArray() {
			path = joinPath(prefix, key.String())
		} else {
			path = joinPath(prefix, escapePathComponent(key.String()))
		}
		switch {
		case value.Type == gjson.String && v.IsObject() && ContainsAny(key.String(), secretKeyHints...):
			*paths = append(*paths, path)
		case value.IsObject() || value.IsArray():
			collectSecretPaths(value, path, paths)
		}
		return true
	})
}

func joinPath(prefix, component string) string {
	if prefix == "" {
		return component
	}
	return prefix + "." + component
}

// escapePathComponent escapes gjson path metacharacters in an object key.
func escapePathComponent(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
