package config

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// usernameRegex follows the Debian adduser NAME_REGEX default.
var usernameRegex = regexp.MustCompile(`^[a-z][-a-z0-9_]*\$?$`)

// localeRegex accepts names like en_US.UTF-8, C.UTF-8 or de_DE@euro.
var localeRegex = regexp.MustCompile(`^([A-Za-z]{2,3}(_[A-Z]{2})?|C)(\.[A-Za-z0-9-]+)?(@[a-z]+)?$`)

// Validate checks the configuration for common errors.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.User != "" {
		if err := ValidateUsername(c.User); err != nil {
			errs = append(errs, fmt.Errorf("user: %w", err))
		}
	}

	if !localeRegex.MatchString(c.Locale.Name) {
		errs = append(errs, fmt.Errorf("locale.name %q is not a valid locale name", c.Locale.Name))
	}
	if c.Locale.Charset == "" {
		errs = append(errs, fmt.Errorf("locale.charset is required"))
	}
	if c.Locale.Timezone == "" || strings.Contains(c.Locale.Timezone, "..") || strings.HasPrefix(c.Locale.Timezone, "/") {
		errs = append(errs, fmt.Errorf("locale.timezone %q is invalid", c.Locale.Timezone))
	}
	if !path.IsAbs(c.Locale.GenFile) {
		errs = append(errs, fmt.Errorf("locale.gen_file must be an absolute path"))
	}

	if c.Shell.Enabled {
		errs = append(errs, validateInstaller("shell.oh_my_zsh", c.Shell.OhMyZsh)...)
		if c.Shell.Package == "" || c.Shell.Binary == "" {
			errs = append(errs, fmt.Errorf("shell.package and shell.binary are required"))
		}
		if c.Shell.RCFile == "" || path.IsAbs(c.Shell.RCFile) {
			errs = append(errs, fmt.Errorf("shell.rc_file must be relative to the user's home"))
		}
	}

	if c.Rust.Enabled {
		errs = append(errs, validateInstaller("rust.installer", c.Rust.Installer)...)
		if c.Rust.Toolchain == "" {
			errs = append(errs, fmt.Errorf("rust.toolchain is required"))
		}
		if strings.TrimSpace(c.Rust.EnvLine) == "" {
			errs = append(errs, fmt.Errorf("rust.env_line is required"))
		}
	}

	if c.Postgres.Enabled {
		errs = append(errs, validatePackages("postgres", c.Postgres.Packages, c.Postgres.Client)...)
		if c.Postgres.Service == "" {
			errs = append(errs, fmt.Errorf("postgres.service is required"))
		}
	}

	if c.ClickHouse.Enabled {
		ch := c.ClickHouse
		errs = append(errs, validatePackages("clickhouse", ch.Packages, ch.Client)...)
		if err := validateHTTPS(ch.KeyURL); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse.key_url: %w", err))
		}
		if err := validateHTTPS(ch.RepoURL); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse.repo_url: %w", err))
		}
		if !path.IsAbs(ch.KeyringPath) || !path.IsAbs(ch.SourceFile) {
			errs = append(errs, fmt.Errorf("clickhouse.keyring_path and clickhouse.source_file must be absolute paths"))
		}
		if ch.Distribution == "" || ch.Component == "" || ch.Service == "" {
			errs = append(errs, fmt.Errorf("clickhouse.distribution, clickhouse.component and clickhouse.service are required"))
		}
	}

	if c.SQLite.Enabled {
		errs = append(errs, validatePackages("sqlite", c.SQLite.Packages, c.SQLite.Client)...)
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("download.timeout must be positive"))
	}

	if c.SSH.Remote() && c.SSH.KeyFile == "" {
		errs = append(errs, fmt.Errorf("ssh.key_file is required when ssh.host is set"))
	}
	if c.SSH.Port < 0 || c.SSH.Port > 65535 {
		errs = append(errs, fmt.Errorf("ssh.port %d is out of range", c.SSH.Port))
	}

	return errors.Join(errs...)
}

// ValidateUsername checks name against the Debian account name rules.
func ValidateUsername(name string) error {
	if len(name) > 32 || !usernameRegex.MatchString(name) {
		return fmt.Errorf("%q is not a valid account name", name)
	}
	return nil
}

func validateInstaller(field string, inst InstallerConfig) []error {
	var errs []error
	if err := validateHTTPS(inst.URL); err != nil {
		errs = append(errs, fmt.Errorf("%s.url: %w", field, err))
	}
	if len(inst.Markers) < 2 {
		errs = append(errs, fmt.Errorf("%s.markers needs at least two entries", field))
	}
	for _, m := range inst.Markers {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Errorf("%s.markers must not contain empty entries", field))
			break
		}
	}
	if inst.ChecksumURL != "" {
		if err := validateHTTPS(inst.ChecksumURL); err != nil {
			errs = append(errs, fmt.Errorf("%s.checksum_url: %w", field, err))
		}
	}
	return errs
}

func validatePackages(field string, packages []string, client string) []error {
	var errs []error
	if len(packages) == 0 {
		errs = append(errs, fmt.Errorf("%s.packages must not be empty", field))
	}
	if client == "" {
		errs = append(errs, fmt.Errorf("%s.client is required", field))
	}
	return errs
}

func validateHTTPS(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%q must be an https URL", raw)
	}
	return nil
}
