package environment

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/xabinapal/ccswitch/internal/types"
)

const wslExe = "wsl.exe"

// homeQuery prints the login shell's $HOME without a trailing newline.
const homeQuery = `printf %s "$HOME"`

// ListDistros returns the installed WSL distributions. Hosts other than
// Windows have none.
func (r *Resolver) ListDistros(ctx context.Context) ([]string, error) {
	if r.goos != "windows" {
		return []string{}, nil
	}

	out, err := r.runWSL(ctx, "-l", "-q")
	if err != nil {
		return nil, err
	}

	distros := []string{}
	for _, line := range strings.Split(decodeOutput(out), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			distros = append(distros, name)
		}
	}
	return distros, nil
}

// ResolveHome returns the Linux $HOME of a distribution.
func (r *Resolver) ResolveHome(ctx context.Context, distro string) (string, error) {
	distro = strings.TrimSpace(distro)
	if distro == "" {
		return "", fmt.Errorf("%w: empty distro name", types.ErrMissingDistroConfig)
	}

	out, err := r.runWSL(ctx, "-d", distro, "sh", "-lc", homeQuery)
	if err != nil {
		return "", err
	}

	home := strings.TrimSpace(decodeOutput(out))
	if home == "" {
		return "", fmt.Errorf("%w: %s reported an empty $HOME for %s", types.ErrExternalTool, wslExe, distro)
	}
	return home, nil
}

// runWSL runs wsl.exe and returns its stdout.
func (r *Resolver) runWSL(ctx context.Context, args ...string) ([]byte, error) {
	if r.goos != "windows" {
		return nil, fmt.Errorf("%w: WSL is not supported on %s", types.ErrExternalTool, r.goos)
	}

	path, err := r.runner.LookPath(wslExe)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found: %v", types.ErrExternalTool, wslExe, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := r.runner.CommandContext(ctx, path, args...)
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	r.logger.Debug("running wsl", "args", args)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(decodeOutput(stderr.Bytes()))
		if msg != "" {
			return nil, fmt.Errorf("%w: %s %s: %v: %s", types.ErrExternalTool, wslExe, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%w: %s %s: %v", types.ErrExternalTool, wslExe, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// ToUNC translates a Linux path inside distro into the \\wsl$ share path
// the Windows host uses to reach it.
func ToUNC(distro, linuxPath string) string {
	rel := strings.ReplaceAll(strings.TrimLeft(linuxPath, "/"), "/", `\`)
	return `\\wsl$\` + distro + `\` + rel
}

// decodeOutput converts wsl.exe output to a string. wsl.exe writes its own
// messages as UTF-16LE while commands run inside a distro write UTF-8.
func decodeOutput(b []byte) string {
	if looksUTF16LE(b) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if out, err := dec.Bytes(b); err == nil {
			return strings.ReplaceAll(string(out), "\r", "")
		}
	}
	s := strings.ReplaceAll(string(b), "\x00", "")
	return strings.ReplaceAll(s, "\r", "")
}

// looksUTF16LE reports whether b has a UTF-16LE byte order mark or mostly
// zero high bytes.
func looksUTF16LE(b []byte) bool {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE {
		return true
	}
	if len(b) < 2 || len(b)%2 != 0 {
		return false
	}
	zeros := 0
	for i := 1; i < len(b); i += 2 {
		if b[i] == 0 {
			zeros++
		}
	}
	return zeros*2 > len(b)/2
}
