package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/imamik/hostprep/internal/platform/shell"
)

// Host is a provisioning target.
type Host struct {
	exec shell.Executor
}

// New wraps exec.
func New(exec shell.Executor) *Host {
	return &Host{exec: exec}
}

// Name identifies the target in logs.
func (h *Host) Name() string {
	return h.exec.Target()
}

// Run executes cmd on the target.
func (h *Host) Run(ctx context.Context, cmd shell.Command) (shell.Result, error) {
	return h.exec.Run(ctx, cmd)
}

// Check runs cmd as a predicate: exit 0 is true, any other exit status is
// false. Failures to start the command are returned as errors.
func (h *Host) Check(ctx context.Context, cmd shell.Command) (bool, error) {
	_, err := h.exec.Run(ctx, cmd)
	if err == nil {
		return true, nil
	}
	if shell.IsExitError(err) {
		return false, nil
	}
	return false, err
}

// HasCommand reports whether name resolves on root's PATH.
func (h *Host) HasCommand(ctx context.Context, name string) (bool, error) {
	return h.Check(ctx, lookupCommand(name))
}

// CommandPath returns the resolved path of name, or "" if it does not resolve.
func (h *Host) CommandPath(ctx context.Context, name string) (string, error) {
	res, err := h.exec.Run(ctx, lookupCommand(name))
	if err != nil {
		if shell.IsExitError(err) {
			return "", nil
		}
		return "", err
	}
	return res.Output(), nil
}

// UserHasCommand reports whether name resolves in the login environment of
// the given account.
func (h *Host) UserHasCommand(ctx context.Context, acct *Account, name string) (bool, error) {
	cmd := shell.Cmd("sh", "-lc", `command -v "$1"`, "sh", name).AsUser(acct.Name, acct.Home)
	return h.Check(ctx, cmd)
}

func lookupCommand(name string) shell.Command {
	return shell.Cmd("sh", "-c", `command -v "$1"`, "sh", name)
}

// Exists reports whether path exists on the target.
func (h *Host) Exists(ctx context.Context, path string) (bool, error) {
	return h.exec.Exists(ctx, path)
}

// ReadFile returns the contents of path, or nil if it does not exist.
func (h *Host) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := h.exec.ReadFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile replaces path with data.
func (h *Host) WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error {
	if err := h.exec.WriteFile(ctx, path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Remove deletes path if present.
func (h *Host) Remove(ctx context.Context, path string) error {
	return h.exec.Remove(ctx, path)
}

// FileContainsLine reports whether path has a line equal to line, ignoring
// surrounding whitespace. A missing file contains nothing.
func (h *Host) FileContainsLine(ctx context.Context, path, line string) (bool, error) {
	data, err := h.ReadFile(ctx, path)
	if err != nil {
		return false, err
	}
	return ContainsLine(string(data), line), nil
}

// EnsureLine appends line to path unless an equal line is already present.
// It returns true if the file was modified. The edit runs as root, so path
// must not be under a directory another account controls.
func (h *Host) EnsureLine(ctx context.Context, path, line string, perm fs.FileMode) (bool, error) {
	data, err := h.ReadFile(ctx, path)
	if err != nil {
		return false, err
	}

	updated, changed := AppendLine(string(data), line)
	if !changed {
		return false, nil
	}

	if err := h.WriteFile(ctx, path, []byte(updated), perm); err != nil {
		return false, err
	}
	return true, nil
}

// appendLineScript appends $1 to $2, first terminating a last line that
// lacks a newline.
const appendLineScript = `if [ -s "$2" ] && [ -n "$(tail -c 1 "$2")" ]; then echo >> "$2"; fi; printf '%s\n' "$1" >> "$2"`

// UserFileHasLine reports whether path has a line equal to line, reading it
// as acct. A file the account cannot read contains nothing.
func (h *Host) UserFileHasLine(ctx context.Context, acct *Account, path, line string) (bool, error) {
	return h.Check(ctx, shell.Cmd("grep", "-qxF", "--", line, path).AsUser(acct.Name, acct.Home))
}

// EnsureUserLine appends line to a file in the account's home unless an
// equal line is already present. Both the check and the append run as
// acct, so links in the home are resolved with the account's permissions
// and a new file belongs to the account.
func (h *Host) EnsureUserLine(ctx context.Context, acct *Account, path, line string) (bool, error) {
	present, err := h.UserFileHasLine(ctx, acct, path, line)
	if err != nil || present {
		return false, err
	}

	cmd := shell.Cmd("sh", "-c", appendLineScript, "sh", line, path).AsUser(acct.Name, acct.Home)
	if _, err := h.Run(ctx, cmd); err != nil {
		return false, fmt.Errorf("failed to append to %s as %s: %w", path, acct.Name, err)
	}
	return true, nil
}

// CreateTemp creates an empty file under /tmp named after name with a
// random suffix. mktemp creates it exclusively, owned by root with mode
// 0600, so no other account can have opened it first.
func (h *Host) CreateTemp(ctx context.Context, name string) (string, error) {
	res, err := h.Run(ctx, shell.Cmd("mktemp", "/tmp/hostprep-"+name+".XXXXXXXXXX"))
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for %s: %w", name, err)
	}
	path := res.Output()
	if path == "" {
		return "", fmt.Errorf("mktemp returned no path for %s", name)
	}
	return path, nil
}

// Chmod sets the permission bits of path.
func (h *Host) Chmod(ctx context.Context, path string, perm fs.FileMode) error {
	_, err := h.Run(ctx, shell.Cmd("chmod", fmt.Sprintf("%o", perm.Perm()), path))
	return err
}

// ResolvePath returns path with all symbolic links resolved. If it cannot
// be resolved, path is returned unchanged.
func (h *Host) ResolvePath(ctx context.Context, path string) (string, error) {
	res, err := h.Run(ctx, shell.Cmd("readlink", "-f", "--", path))
	if err != nil {
		if shell.IsExitError(err) {
			return path, nil
		}
		return "", err
	}
	if out := res.Output(); out != "" {
		return out, nil
	}
	return path, nil
}

// Version runs cmd and returns the first line of its output, or "" if the
// command fails. It is only used for reporting.
func (h *Host) Version(ctx context.Context, cmd shell.Command) string {
	res, err := h.exec.Run(ctx, cmd)
	if err != nil {
		return ""
	}
	out := res.Output()
	if out == "" {
		out = strings.TrimSpace(res.Stderr)
	}
	first, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(first)
}
