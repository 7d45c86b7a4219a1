package environment

import (
	"context"
	"errors"
	"io"
	"sync"
)

// mockCommandRunner is a mock implementation of CommandRunner for testing.
type mockCommandRunner struct {
	lookPathErr error
	// respond produces stdout, stderr and the run error for an invocation.
	respond  func(name string, args []string) ([]byte, []byte, error)
	commands []*mockCommand
	mu       sync.Mutex
}

// mockCommand is a mock implementation of Command for testing.
type mockCommand struct {
	runner *mockCommandRunner
	name   string
	args   []string
	stdout io.Writer
	stderr io.Writer
}

// newMockCommandRunner creates a mock runner that answers with respond.
func newMockCommandRunner(respond func(name string, args []string) ([]byte, []byte, error)) *mockCommandRunner {
	return &mockCommandRunner{respond: respond}
}

// LookPath implements CommandRunner.
func (m *mockCommandRunner) LookPath(file string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookPathErr != nil {
		return "", m.lookPathErr
	}
	return `C:\Windows\System32\` + file, nil
}

// CommandContext implements CommandRunner.
func (m *mockCommandRunner) CommandContext(ctx context.Context, name string, args ...string) Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := &mockCommand{runner: m, name: name, args: args}
	m.commands = append(m.commands, cmd)
	return cmd
}

// calls returns the number of commands created.
func (m *mockCommandRunner) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.commands)
}

// SetStdout implements Command.
func (c *mockCommand) SetStdout(stdout io.Writer) {
	c.stdout = stdout
}

// SetStderr implements Command.
func (c *mockCommand) SetStderr(stderr io.Writer) {
	c.stderr = stderr
}

// Run implements Command.
func (c *mockCommand) Run() error {
	if c.runner.respond == nil {
		return errors.New("no response configured")
	}
	stdout, stderr, err := c.runner.respond(c.name, c.args)
	if c.stdout != nil {
		_, _ = c.stdout.Write(stdout)
	}
	if c.stderr != nil {
		_, _ = c.stderr.Write(stderr)
	}
	return err
}

// utf16le encodes ASCII text the way wsl.exe writes it.
func utf16le(s string, bom bool) []byte {
	var out []byte
	if bom {
		out = append(out, 0xFF, 0xFE)
	}
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	return out
}
