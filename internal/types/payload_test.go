package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParsePayloadCodex(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "complete", raw: `{"auth":{"OPENAI_API_KEY":"sk"},"config":"model = \"o3\""}`},
		{name: "empty config text", raw: `{"auth":{},"config":""}`},
		{name: "missing auth", raw: `{"config":""}`, wantErr: ErrMissingField},
		{name: "missing config", raw: `{"auth":{}}`, wantErr: ErrMissingField},
		{name: "config not a string", raw: `{"auth":{},"config":42}`, wantErr: ErrMissingField},
		{name: "invalid json", raw: `{"auth":`, wantErr: ErrSerialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload(AppCodex, json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParsePayload() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePayload() failed: %v", err)
			}
			if _, ok := p.(CodexPayload); !ok {
				t.Errorf("ParsePayload() returned %T, want CodexPayload", p)
			}
		})
	}
}

func TestParsePayloadClaude(t *testing.T) {
	p, err := ParsePayload(AppClaude, json.RawMessage(`{"model":"x"}`))
	if err != nil {
		t.Fatalf("ParsePayload() failed: %v", err)
	}
	cp, ok := p.(ClaudePayload)
	if !ok {
		t.Fatalf("ParsePayload() returned %T, want ClaudePayload", p)
	}
	if string(cp.Settings) != `{"model":"x"}` {
		t.Errorf("Settings = %s", cp.Settings)
	}

	if _, err := ParsePayload(AppClaude, json.RawMessage(`not json`)); !errors.Is(err, ErrSerialization) {
		t.Errorf("invalid claude payload error = %v, want ErrSerialization", err)
	}
}

func TestCodexPayloadEncode(t *testing.T) {
	in := CodexPayload{
		Auth:   json.RawMessage(`{"OPENAI_API_KEY":"sk-123"}`),
		Config: "model = \"o3\"\n[model_providers.x]\nbase_url = \"https://x\"\n",
	}

	raw, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	out, err := ParsePayload(AppCodex, raw)
	if err != nil {
		t.Fatalf("ParsePayload(Encode()) failed: %v", err)
	}
	got := out.(CodexPayload)
	if got.Config != in.Config {
		t.Errorf("Config = %q, want %q", got.Config, in.Config)
	}

	var a, b any
	_ = json.Unmarshal(got.Auth, &a)
	_ = json.Unmarshal(in.Auth, &b)
	if a.(map[string]any)["OPENAI_API_KEY"] != b.(map[string]any)["OPENAI_API_KEY"] {
		t.Errorf("Auth = %s, want %s", got.Auth, in.Auth)
	}
}
