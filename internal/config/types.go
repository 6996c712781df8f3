package config

import "time"

// Config is the complete description of what hostprep installs and where.
type Config struct {
	// User is the non-root account that receives per-user tooling
	// (oh-my-zsh, rustup, .zshrc). See ResolveUser for precedence.
	User string `yaml:"user,omitempty"`

	// UserOverride is set from the --user flag and wins over everything.
	UserOverride string `yaml:"-"`

	Locale     LocaleConfig     `yaml:"locale"`
	System     SystemConfig     `yaml:"system"`
	Shell      ShellConfig      `yaml:"shell"`
	Rust       RustConfig       `yaml:"rust"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Download   DownloadConfig   `yaml:"download"`
	SSH        SSHConfig        `yaml:"ssh,omitempty"`
	Metrics    MetricsConfig    `yaml:"metrics,omitempty"`
}

// LocaleConfig controls the locale and timezone stage.
type LocaleConfig struct {
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Timezone string `yaml:"timezone"`
	GenFile  string `yaml:"gen_file"`
}

// Entry returns the locale.gen line for this locale, e.g. "en_US.UTF-8 UTF-8".
func (l LocaleConfig) Entry() string {
	return l.Name + " " + l.Charset
}

// SystemConfig controls the base package stage.
type SystemConfig struct {
	Packages []string `yaml:"packages"`
	Upgrade  bool     `yaml:"upgrade"`
}

// InstallerConfig describes a downloaded installer script.
type InstallerConfig struct {
	URL string `yaml:"url"`

	// Markers must all appear in the downloaded script before it is run.
	Markers []string `yaml:"markers"`

	// ChecksumURL optionally points at a sha256sum-style file for the script.
	ChecksumURL string `yaml:"checksum_url,omitempty"`
}

// ShellConfig controls the zsh and oh-my-zsh stage.
type ShellConfig struct {
	Enabled  bool            `yaml:"enabled"`
	Package  string          `yaml:"package"`
	Binary   string          `yaml:"binary"`
	OhMyZsh  InstallerConfig `yaml:"oh_my_zsh"`
	RCFile   string          `yaml:"rc_file"`
	ChangeTo bool            `yaml:"change_login_shell"`
}

// RustConfig controls the rustup stage.
type RustConfig struct {
	Enabled    bool            `yaml:"enabled"`
	Toolchain  string          `yaml:"toolchain"`
	Components []string        `yaml:"components"`
	Installer  InstallerConfig `yaml:"installer"`
	EnvLine    string          `yaml:"env_line"`
}

// PostgresConfig controls the relational database stage.
type PostgresConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Packages []string `yaml:"packages"`
	Client   string   `yaml:"client"`
	Service  string   `yaml:"service"`
}

// ClickHouseConfig controls the columnar database stage.
type ClickHouseConfig struct {
	Enabled      bool     `yaml:"enabled"`
	KeyURL       string   `yaml:"key_url"`
	KeyringPath  string   `yaml:"keyring_path"`
	RepoURL      string   `yaml:"repo_url"`
	Distribution string   `yaml:"distribution"`
	Component    string   `yaml:"component"`
	SourceFile   string   `yaml:"source_file"`
	Packages     []string `yaml:"packages"`
	Client       string   `yaml:"client"`
	Service      string   `yaml:"service"`
}

// SourceLine returns the APT source entry referencing the keyring.
func (c ClickHouseConfig) SourceLine() string {
	return "deb [signed-by=" + c.KeyringPath + "] " + c.RepoURL + " " + c.Distribution + " " + c.Component
}

// SQLiteConfig controls the embedded database stage.
type SQLiteConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Packages []string `yaml:"packages"`
	Client   string   `yaml:"client"`
}

// DownloadConfig controls installer and key downloads.
type DownloadConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// SSHConfig selects a remote target. Host empty means the local machine.
type SSHConfig struct {
	Host           string `yaml:"host,omitempty"`
	Port           int    `yaml:"port,omitempty"`
	User           string `yaml:"user,omitempty"`
	KeyFile        string `yaml:"key_file,omitempty"`
	KnownHostsFile string `yaml:"known_hosts_file,omitempty"`
}

// Remote reports whether the run targets another host.
func (s SSHConfig) Remote() bool {
	return s.Host != ""
}

// MetricsConfig controls the Prometheus textfile written after a run.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path,omitempty"`
}
