package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/hostprep/internal/platform/shell"
)

// PermissionError is returned when hostprep does not run with root
// privileges on the target.
type PermissionError struct {
	UID int
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("must run as root (effective uid is %d)", e.UID)
}

// ConfigurationError is returned when the run cannot determine what to act
// on, e.g. the target user is missing or unknown.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IntegrityError is returned when downloaded content fails verification.
// The content is never executed or installed.
type IntegrityError struct {
	Subject string
	Err     error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s: %v", e.Subject, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// ExitCode maps a run error to a process exit status. External command
// failures propagate the command's own status; everything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var cmdErr *shell.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 && cmdErr.ExitCode < 256 {
		return cmdErr.ExitCode
	}
	return 1
}
