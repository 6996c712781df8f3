package stages

import (
	"fmt"
	"strings"

	"github.com/imamik/hostprep/internal/provisioning"
)

// System refreshes the package index, upgrades installed packages and
// installs the baseline package set.
type System struct{}

// NewSystem creates the system update stage.
func NewSystem() *System {
	return &System{}
}

// Name implements the provisioning.Phase interface.
func (s *System) Name() string {
	return "system"
}

// Provision implements the provisioning.Phase interface.
func (s *System) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.System

	ctx.Step("refreshing package index")
	if err := ctx.Host.AptUpdate(ctx); err != nil {
		return fmt.Errorf("apt-get update failed: %w", err)
	}
	ctx.Applied("package index", "refreshed")

	if cfg.Upgrade {
		ctx.Step("upgrading installed packages")
		if err := ctx.Host.AptUpgrade(ctx); err != nil {
			return fmt.Errorf("apt-get upgrade failed: %w", err)
		}
		ctx.Applied("installed packages", "upgraded")
	}

	missing, err := ctx.Host.MissingPackages(ctx, cfg.Packages...)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		ctx.Skipped("baseline packages", "already installed")
		return nil
	}

	ctx.Step("installing %s", strings.Join(missing, " "))
	if err := ctx.Host.AptInstall(ctx, missing...); err != nil {
		return fmt.Errorf("failed to install baseline packages: %w", err)
	}
	ctx.Applied("baseline packages", "installed "+strings.Join(missing, " "))
	return nil
}
