package stages

import (
	"fmt"
	"strings"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/download"
	"github.com/imamik/hostprep/internal/provisioning"
)

// ClickHouse adds the vendor's signed APT repository, installs ClickHouse
// and keeps its server running.
type ClickHouse struct{}

// NewClickHouse creates the columnar database stage.
func NewClickHouse() *ClickHouse {
	return &ClickHouse{}
}

// Name implements the provisioning.Phase interface.
func (c *ClickHouse) Name() string {
	return "clickhouse"
}

// Enabled implements the provisioning.Toggle interface.
func (c *ClickHouse) Enabled(cfg *config.Config) bool {
	return cfg.ClickHouse.Enabled
}

// Provision implements the provisioning.Phase interface.
func (c *ClickHouse) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.ClickHouse

	present, err := ctx.Host.HasCommand(ctx, cfg.Client)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", cfg.Client, err)
	}
	if present {
		ctx.Skipped(cfg.Client, "already installed")
	} else {
		if err := c.ensureKeyring(ctx, cfg); err != nil {
			return err
		}
		if err := c.ensureSource(ctx, cfg); err != nil {
			return err
		}

		ctx.Step("refreshing package index for %s", cfg.RepoURL)
		if err := ctx.Host.AptUpdate(ctx); err != nil {
			return fmt.Errorf("apt-get update failed: %w", err)
		}

		ctx.Step("installing %s", strings.Join(cfg.Packages, " "))
		if err := ctx.Host.AptInstall(ctx, cfg.Packages...); err != nil {
			return fmt.Errorf("failed to install %s: %w", strings.Join(cfg.Packages, " "), err)
		}
		ctx.Applied(cfg.Client, "installed "+strings.Join(cfg.Packages, " "))
	}

	return ensureService(ctx, cfg.Service)
}

// ensureKeyring writes the dearmored signing key unless the keyring exists.
func (c *ClickHouse) ensureKeyring(ctx *provisioning.Context, cfg config.ClickHouseConfig) error {
	present, err := ctx.Host.Exists(ctx, cfg.KeyringPath)
	if err != nil {
		return err
	}
	if present {
		ctx.Skipped(cfg.KeyringPath, "already present")
		return nil
	}

	ctx.Step("downloading signing key from %s", cfg.KeyURL)
	armored, err := ctx.Fetcher.Fetch(ctx, cfg.KeyURL)
	if err != nil {
		return fmt.Errorf("failed to download ClickHouse signing key: %w", err)
	}

	key, err := download.Dearmor(armored)
	if err != nil {
		return &provisioning.IntegrityError{Subject: "ClickHouse signing key", Err: err}
	}

	if err := ctx.Host.WriteFile(ctx, cfg.KeyringPath, key.Binary, 0o644); err != nil {
		return err
	}
	ctx.Applied(cfg.KeyringPath, "fingerprint "+strings.Join(key.Fingerprints, ", "))
	return nil
}

// ensureSource adds the repository line unless it is already present.
func (c *ClickHouse) ensureSource(ctx *provisioning.Context, cfg config.ClickHouseConfig) error {
	changed, err := ctx.Host.EnsureLine(ctx, cfg.SourceFile, cfg.SourceLine(), 0o644)
	if err != nil {
		return err
	}
	if changed {
		ctx.Applied(cfg.SourceFile, "added "+cfg.RepoURL)
	} else {
		ctx.Skipped(cfg.SourceFile, "already lists "+cfg.RepoURL)
	}
	return nil
}
