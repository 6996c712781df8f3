package shell

import (
	"context"
	"io/fs"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Command describes a single process invocation on the target host.
type Command struct {
	// Name is the executable to run.
	Name string

	// Args are passed to the executable verbatim.
	Args []string

	// Env holds extra KEY=VALUE pairs for the process.
	Env []string

	// User drops privileges to the given account via runuser.
	// Empty means the command runs as the executor's own identity.
	User string

	// Home is exported as HOME when User is set.
	Home string
}

// Cmd is a shorthand for building a Command.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// WithEnv returns a copy of the command with extra environment entries.
func (c Command) WithEnv(env ...string) Command {
	c.Env = append(append([]string(nil), c.Env...), env...)
	return c
}

// AsUser returns a copy of the command that runs as user with the given home.
func (c Command) AsUser(user, home string) Command {
	c.User = user
	c.Home = home
	return c
}

// Argv returns the full argument vector, including the runuser/env prefix
// used for privilege drop and environment injection.
func (c Command) Argv() []string {
	var argv []string
	if c.User != "" {
		argv = append(argv, "runuser", "-u", c.User, "--")
	}

	env := c.Env
	if c.User != "" && c.Home != "" {
		env = append([]string{"HOME=" + c.Home}, env...)
	}
	if len(env) > 0 {
		argv = append(argv, "env")
		argv = append(argv, env...)
	}

	argv = append(argv, c.Name)
	return append(argv, c.Args...)
}

// String renders the command as a shell-quoted line.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Display renders the command without the privilege-drop prefix, for logs.
func (c Command) Display() string {
	line := shellquote.Join(append([]string{c.Name}, c.Args...)...)
	if c.User != "" {
		return line + " (as " + c.User + ")"
	}
	return line
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns trimmed stdout.
func (r Result) Output() string {
	return strings.TrimSpace(r.Stdout)
}

// Executor runs commands and manipulates files on a target host.
type Executor interface {
	// Run executes the command and waits for it to finish.
	// A non-zero exit status is reported as *CommandError.
	Run(ctx context.Context, cmd Command) (Result, error)

	// ReadFile returns the contents of path. A missing file yields an
	// error satisfying errors.Is(err, fs.ErrNotExist).
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile creates or truncates path with data and perm.
	WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error

	// Exists reports whether path exists.
	Exists(ctx context.Context, path string) (bool, error)

	// Remove deletes path. Removing a missing path is not an error.
	Remove(ctx context.Context, path string) error

	// Target names the host for log output.
	Target() string
}
