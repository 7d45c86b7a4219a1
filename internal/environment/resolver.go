// Package environment resolves where the managed applications keep their
// live configuration files, either on the host or inside a WSL distribution.
package environment

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
)

// Resolver maps settings to a home directory and the live file layout below it.
type Resolver struct {
	runner  CommandRunner
	goos    string
	homeDir func() (string, error)
	logger  *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCommandRunner sets the runner used to invoke wsl.exe.
func WithCommandRunner(runner CommandRunner) Option {
	return func(r *Resolver) {
		r.runner = runner
	}
}

// WithGOOS overrides the host operating system.
func WithGOOS(goos string) Option {
	return func(r *Resolver) {
		r.goos = goos
	}
}

// WithHomeDir overrides how the local home directory is found.
func WithHomeDir(fn func() (string, error)) Option {
	return func(r *Resolver) {
		r.homeDir = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver for the current host.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		runner:  NewCommandRunner(),
		goos:    runtime.GOOS,
		homeDir: localHomeDir,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// localHomeDir returns the OS-reported home directory.
func localHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return home, nil
	}
	if runtime.GOOS == "windows" {
		if home := os.Getenv("USERPROFILE"); home != "" {
			return home, nil
		}
	}
	if err == nil {
		err = fmt.Errorf("home directory is empty")
	}
	return "", err
}
