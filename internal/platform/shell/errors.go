package shell

import (
	"errors"
	"fmt"
	"strings"
)

// CommandError is returned when a command exits with a non-zero status.
type CommandError struct {
	Command  Command
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("command %q exited with status %d", e.Command.Display(), e.ExitCode)
	}
	return fmt.Sprintf("command %q exited with status %d: %s", e.Command.Display(), e.ExitCode, lastLines(out, 5))
}

// ExitCode extracts the exit status from err, if err wraps a CommandError.
func ExitCode(err error) (int, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode, true
	}
	return 0, false
}

// IsExitError reports whether err is a CommandError, i.e. the command ran but
// returned a non-zero status, as opposed to failing to start.
func IsExitError(err error) bool {
	_, ok := ExitCode(err)
	return ok
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
