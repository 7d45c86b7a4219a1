// Package logging builds the structured logger shared by ccswitch components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix tags every log line.
const Prefix = "ccswitch"

// ParseLevel parses a log level string. An empty string is info.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid log level: %s", s)
	}
}

// Config configures the logger.
type Config struct {
	// Level is debug, info, warn or error.
	Level string
	// FilePath appends logs to a file instead of Writer.
	FilePath string
	// JSON selects JSON lines output.
	JSON bool
	// Writer receives logs when FilePath is empty. Defaults to stderr.
	Writer io.Writer
}

// Logger is a charmbracelet logger that may own a log file.
type Logger struct {
	*log.Logger
	file *os.File
}

// New creates a logger from cfg.
func New(cfg Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	l := &Logger{}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		// #nosec G304 - log path comes from the user's own flags
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		w = f
	}

	opts := log.Options{
		Level:           level,
		Prefix:          Prefix,
		ReportTimestamp: cfg.FilePath != "" || cfg.JSON,
	}
	if cfg.JSON {
		opts.Formatter = log.JSONFormatter
	}
	l.Logger = log.NewWithOptions(w, opts)
	return l, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
