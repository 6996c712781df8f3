package config

// Default returns the built-in configuration for a fresh Debian server.
func Default() *Config {
	return &Config{
		Locale: LocaleConfig{
			Name:     DefaultLocale,
			Charset:  DefaultCharset,
			Timezone: DefaultTimezone,
			GenFile:  DefaultLocaleGenFile,
		},
		System: SystemConfig{
			Packages: []string{"curl", "git", "build-essential", "ca-certificates", "locales", "tzdata"},
			Upgrade:  true,
		},
		Shell: ShellConfig{
			Enabled: true,
			Package: "zsh",
			Binary:  "zsh",
			OhMyZsh: InstallerConfig{
				URL:     DefaultOhMyZshURL,
				Markers: []string{"#!/bin/sh", "oh-my-zsh"},
			},
			RCFile:   ".zshrc",
			ChangeTo: true,
		},
		Rust: RustConfig{
			Enabled:    true,
			Toolchain:  "stable",
			Components: []string{"rustfmt", "clippy", "rust-src", "rust-analyzer"},
			Installer: InstallerConfig{
				URL:     DefaultRustupURL,
				Markers: []string{"#!/bin/sh", "rustup"},
			},
			EnvLine: DefaultRustEnvLine,
		},
		Postgres: PostgresConfig{
			Enabled:  true,
			Packages: []string{"postgresql", "postgresql-contrib"},
			Client:   "psql",
			Service:  "postgresql",
		},
		ClickHouse: ClickHouseConfig{
			Enabled:      true,
			KeyURL:       DefaultClickHouseKeyURL,
			KeyringPath:  DefaultClickHouseKeyring,
			RepoURL:      DefaultClickHouseRepo,
			Distribution: "stable",
			Component:    "main",
			SourceFile:   DefaultClickHouseSource,
			Packages:     []string{"clickhouse-server", "clickhouse-client"},
			Client:       "clickhouse-client",
			Service:      "clickhouse-server",
		},
		SQLite: SQLiteConfig{
			Enabled:  true,
			Packages: []string{"sqlite3", "libsqlite3-dev"},
			Client:   "sqlite3",
		},
		Download: DownloadConfig{
			Timeout: DefaultDownloadTimeout,
		},
	}
}
