package provisioning

import "github.com/imamik/hostprep/internal/config"

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the short name of this phase, used in logs and metrics.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Toggle is implemented by phases that can be switched off in the config.
// Disabled phases are reported as skipped.
type Toggle interface {
	Enabled(cfg *config.Config) bool
}
