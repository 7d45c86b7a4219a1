// Package live reads and writes the configuration files the managed
// applications consume, implementing the make-live protocol: backfill of
// outgoing state, validation of the incoming payload, and single-file or
// dual-file commits with rollback.
package live

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/xabinapal/ccswitch/internal/environment"
	"github.com/xabinapal/ccswitch/internal/fsx"
	"github.com/xabinapal/ccswitch/internal/types"
)

// fileMode is used for every live file; they carry API keys.
const fileMode fs.FileMode = 0600

// WriteFunc writes a whole file. The default is fsx.WriteFileAtomic.
type WriteFunc func(path string, data []byte, mode fs.FileMode) error

// Writer applies provider payloads to live files.
type Writer struct {
	writeFile WriteFunc
	logger    *log.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithWriteFunc replaces the file writer.
func WithWriteFunc(fn WriteFunc) Option {
	return func(w *Writer) {
		w.writeFile = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter creates a live config writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		writeFile: fsx.WriteFileAtomic,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Status describes the live configuration of one application.
type Status struct {
	Exists bool   `json:"exists" yaml:"exists"`
	Path   string `json:"path" yaml:"path"`
}

// Status reports where the live configuration of app lives and whether it
// exists. For codex the path is the config directory and existence is that
// of auth.json.
func (w *Writer) Status(app types.AppKind, layout environment.Layout) (Status, error) {
	switch app {
	case types.AppClaude:
		path := layout.ClaudeSettingsPath()
		return Status{Exists: fsx.Exists(path), Path: path}, nil
	case types.AppCodex:
		return Status{Exists: fsx.Exists(layout.CodexAuthPath()), Path: layout.CodexDir()}, nil
	default:
		return Status{}, fmt.Errorf("%w: %q", types.ErrAppKindNotFound, app)
	}
}

// Validate checks that raw is a complete payload for app. Codex payloads
// need auth and a config string that parses as TOML.
func Validate(app types.AppKind, raw json.RawMessage) (types.Payload, error) {
	p, err := types.ParsePayload(app, raw)
	if err != nil {
		return nil, err
	}
	if cp, ok := p.(types.CodexPayload); ok {
		if err := validateTOML(cp.Config); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func validateTOML(text string) error {
	var doc map[string]any
	if _, err := toml.Decode(text, &doc); err != nil {
		return fmt.Errorf("%w: codex config is not valid TOML: %v", types.ErrSerialization, err)
	}
	return nil
}

// Apply validates raw and commits it to the live files of app.
func (w *Writer) Apply(app types.AppKind, layout environment.Layout, raw json.RawMessage) error {
	p, err := Validate(app, raw)
	if err != nil {
		return err
	}
	return w.Commit(layout, p)
}

// Commit writes a validated payload to its live files.
func (w *Writer) Commit(layout environment.Layout, p types.Payload) error {
	switch p := p.(type) {
	case types.ClaudePayload:
		return w.commitClaude(layout, p)
	case types.CodexPayload:
		return w.commitCodex(layout, p)
	default:
		return fmt.Errorf("%w: unsupported payload %T", types.ErrInvalidOperation, p)
	}
}

func (w *Writer) commitClaude(layout environment.Layout, p types.ClaudePayload) error {
	data, err := prettyJSON(p.Settings)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(layout.ClaudeDir(), 0700); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", types.ErrIO, layout.ClaudeDir(), err)
	}

	path := layout.ClaudeSettingsPath()
	if err := w.writeFile(path, data, fileMode); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", types.ErrIO, path, err)
	}
	w.logger.Debug("wrote live config", "app", types.AppClaude, "path", path)
	return nil
}

// commitCodex writes auth.json then config.toml. When the second write
// fails auth.json is put back to its pre-write state, so the pair is either
// fully new or fully old.
func (w *Writer) commitCodex(layout environment.Layout, p types.CodexPayload) error {
	auth, err := prettyJSON(p.Auth)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(layout.CodexDir(), 0700); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", types.ErrIO, layout.CodexDir(), err)
	}

	authPath := layout.CodexAuthPath()
	configPath := layout.CodexConfigPath()

	snap, err := takeSnapshot(authPath)
	if err != nil {
		return err
	}

	if err := w.writeFile(authPath, auth, fileMode); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", types.ErrIO, authPath, err)
	}

	if err := w.writeFile(configPath, []byte(p.Config), fileMode); err != nil {
		writeErr := fmt.Errorf("%w: failed to write %s: %v", types.ErrIO, configPath, err)
		if rbErr := w.restore(snap); rbErr != nil {
			w.logger.Error("rollback of codex auth failed", "path", authPath, "error", rbErr)
			return fmt.Errorf("%w; rollback of %s failed: %v", writeErr, authPath, rbErr)
		}
		w.logger.Warn("codex config write failed, auth restored", "path", authPath)
		return writeErr
	}

	w.logger.Debug("wrote live config", "app", types.AppCodex, "auth", authPath, "config", configPath)
	return nil
}

// snapshot is the pre-write state of a file.
type snapshot struct {
	path    string
	data    []byte
	existed bool
}

func takeSnapshot(path string) (snapshot, error) {
	// #nosec G304 - path is a live config file below the resolved home
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snapshot{path: path}, nil
		}
		return snapshot{}, fmt.Errorf("%w: failed to read %s: %v", types.ErrIO, path, err)
	}
	return snapshot{path: path, data: data, existed: true}, nil
}

func (w *Writer) restore(s snapshot) error {
	if !s.existed {
		return fsx.RemoveIfExists(s.path)
	}
	return w.writeFile(s.path, s.data, fileMode)
}

func prettyJSON(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	return buf.Bytes(), nil
}
