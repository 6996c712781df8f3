package host

import (
	"context"
	"fmt"

	"github.com/imamik/hostprep/internal/platform/shell"
)

// ServiceState is the observed state of a systemd unit.
type ServiceState struct {
	Active  bool `json:"active"`
	Enabled bool `json:"enabled"`
}

// Ready reports whether the unit is both running and enabled at boot.
func (s ServiceState) Ready() bool {
	return s.Active && s.Enabled
}

// ServiceState queries systemd for unit.
func (h *Host) ServiceState(ctx context.Context, unit string) (ServiceState, error) {
	active, err := h.Check(ctx, shell.Cmd("systemctl", "is-active", "--quiet", unit))
	if err != nil {
		return ServiceState{}, fmt.Errorf("failed to query %s: %w", unit, err)
	}
	enabled, err := h.Check(ctx, shell.Cmd("systemctl", "is-enabled", "--quiet", unit))
	if err != nil {
		return ServiceState{}, fmt.Errorf("failed to query %s: %w", unit, err)
	}
	return ServiceState{Active: active, Enabled: enabled}, nil
}

// StartService starts unit.
func (h *Host) StartService(ctx context.Context, unit string) error {
	_, err := h.Run(ctx, shell.Cmd("systemctl", "start", unit))
	return err
}

// EnableService enables unit at boot.
func (h *Host) EnableService(ctx context.Context, unit string) error {
	_, err := h.Run(ctx, shell.Cmd("systemctl", "enable", unit))
	return err
}
