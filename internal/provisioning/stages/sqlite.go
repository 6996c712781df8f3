package stages

import (
	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/provisioning"
)

// SQLite installs the sqlite3 shell and development headers.
type SQLite struct{}

// NewSQLite creates the embedded database stage.
func NewSQLite() *SQLite {
	return &SQLite{}
}

// Name implements the provisioning.Phase interface.
func (s *SQLite) Name() string {
	return "sqlite"
}

// Enabled implements the provisioning.Toggle interface.
func (s *SQLite) Enabled(cfg *config.Config) bool {
	return cfg.SQLite.Enabled
}

// Provision implements the provisioning.Phase interface.
func (s *SQLite) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.SQLite
	return ensureClient(ctx, cfg.Client, cfg.Packages)
}
