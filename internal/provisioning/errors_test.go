package provisioning

import (
	"errors"
	"fmt"
	"testing"

	"github.com/imamik/hostprep/internal/platform/shell"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	cmdErr := &shell.CommandError{Command: shell.Cmd("apt-get", "install", "zsh"), ExitCode: 100}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"permission", &PermissionError{UID: 1000}, 1},
		{"configuration", &ConfigurationError{Msg: "no target user"}, 1},
		{"integrity", &IntegrityError{Subject: "rustup installer", Err: errors.New("missing marker")}, 1},
		{"command", cmdErr, 100},
		{"wrapped command", fmt.Errorf("system phase failed: %w", cmdErr), 100},
		{"signal", &shell.CommandError{ExitCode: -1}, 1},
		{"plain", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "must run as root (effective uid is 1000)", (&PermissionError{UID: 1000}).Error())

	inner := errors.New("unknown user: bob")
	cfgErr := &ConfigurationError{Msg: "cannot resolve target user", Err: inner}
	assert.Equal(t, "cannot resolve target user: unknown user: bob", cfgErr.Error())
	assert.ErrorIs(t, cfgErr, inner)

	intErr := &IntegrityError{Subject: "oh-my-zsh installer", Err: inner}
	assert.Contains(t, intErr.Error(), "oh-my-zsh installer")
	assert.ErrorIs(t, intErr, inner)
}
