package stages

import (
	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/provisioning"
)

// Postgres installs PostgreSQL and keeps its service running.
type Postgres struct{}

// NewPostgres creates the relational database stage.
func NewPostgres() *Postgres {
	return &Postgres{}
}

// Name implements the provisioning.Phase interface.
func (p *Postgres) Name() string {
	return "postgres"
}

// Enabled implements the provisioning.Toggle interface.
func (p *Postgres) Enabled(cfg *config.Config) bool {
	return cfg.Postgres.Enabled
}

// Provision implements the provisioning.Phase interface.
func (p *Postgres) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Postgres
	if err := ensureClient(ctx, cfg.Client, cfg.Packages); err != nil {
		return err
	}
	return ensureService(ctx, cfg.Service)
}
