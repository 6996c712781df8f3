package wizard

import (
	"strings"

	"github.com/imamik/hostprep/internal/config"
)

// BuildConfig applies the wizard answers to the default configuration.
func BuildConfig(result *Result) *config.Config {
	cfg := config.Default()

	cfg.User = strings.TrimSpace(result.User)
	if result.Locale != "" {
		cfg.Locale.Name = result.Locale
	}
	if tz := strings.TrimSpace(result.Timezone); tz != "" {
		cfg.Locale.Timezone = tz
	}

	cfg.Shell.Enabled = result.Enabled(StageShell)
	cfg.Rust.Enabled = result.Enabled(StageRust)
	cfg.Postgres.Enabled = result.Enabled(StagePostgres)
	cfg.ClickHouse.Enabled = result.Enabled(StageClickHouse)
	cfg.SQLite.Enabled = result.Enabled(StageSQLite)

	if cfg.Rust.Enabled {
		if result.Toolchain != "" {
			cfg.Rust.Toolchain = result.Toolchain
		}
		cfg.Rust.Components = append([]string(nil), result.Components...)
	}

	return cfg
}
