package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad user",
			mutate:  func(c *Config) { c.User = "Alice Smith" },
			wantErr: "user:",
		},
		{
			name:    "bad locale",
			mutate:  func(c *Config) { c.Locale.Name = "english" },
			wantErr: "locale.name",
		},
		{
			name:    "timezone traversal",
			mutate:  func(c *Config) { c.Locale.Timezone = "../../etc/passwd" },
			wantErr: "locale.timezone",
		},
		{
			name:    "relative locale.gen",
			mutate:  func(c *Config) { c.Locale.GenFile = "locale.gen" },
			wantErr: "locale.gen_file",
		},
		{
			name:    "plain http installer",
			mutate:  func(c *Config) { c.Shell.OhMyZsh.URL = "http://example.com/install.sh" },
			wantErr: "shell.oh_my_zsh.url",
		},
		{
			name:    "single marker",
			mutate:  func(c *Config) { c.Rust.Installer.Markers = []string{"rustup"} },
			wantErr: "rust.installer.markers needs at least two entries",
		},
		{
			name:    "empty marker",
			mutate:  func(c *Config) { c.Rust.Installer.Markers = []string{"rustup", " "} },
			wantErr: "must not contain empty entries",
		},
		{
			name:    "absolute rc file",
			mutate:  func(c *Config) { c.Shell.RCFile = "/root/.zshrc" },
			wantErr: "shell.rc_file",
		},
		{
			name:    "no postgres packages",
			mutate:  func(c *Config) { c.Postgres.Packages = nil },
			wantErr: "postgres.packages",
		},
		{
			name:    "relative keyring",
			mutate:  func(c *Config) { c.ClickHouse.KeyringPath = "keyring.gpg" },
			wantErr: "clickhouse.keyring_path",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Download.Timeout = 0 },
			wantErr: "download.timeout",
		},
		{
			name:    "ssh without key",
			mutate:  func(c *Config) { c.SSH.Host = "10.0.0.5" },
			wantErr: "ssh.key_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DisabledStagesSkipChecks(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.ClickHouse.Enabled = false
	cfg.ClickHouse.KeyURL = ""
	cfg.Rust.Enabled = false
	cfg.Rust.Installer.Markers = nil

	assert.NoError(t, cfg.Validate())
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"alice", "deploy-user", "svc_1", "machine$"} {
		assert.NoError(t, ValidateUsername(ok), ok)
	}
	for _, bad := range []string{"", "Alice", "1user", "a b", "this-name-is-way-too-long-for-debian-accounts"} {
		assert.Error(t, ValidateUsername(bad), bad)
	}
}

func TestResolveUser(t *testing.T) {
	t.Parallel()

	env := func(values map[string]string) func(string) string {
		return func(k string) string { return values[k] }
	}

	tests := []struct {
		name     string
		override string
		file     string
		env      map[string]string
		want     string
	}{
		{"flag wins", "flag", "file", map[string]string{EnvUser: "env", EnvSudoUser: "sudo"}, "flag"},
		{"env override beats file", "", "file", map[string]string{EnvUser: "env", EnvSudoUser: "sudo"}, "env"},
		{"file beats sudo", "", "file", map[string]string{EnvSudoUser: "sudo"}, "file"},
		{"sudo fallback", "", "", map[string]string{EnvSudoUser: "sudo"}, "sudo"},
		{"nothing", "", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			cfg.UserOverride = tt.override
			cfg.User = tt.file
			assert.Equal(t, tt.want, cfg.ResolveUser(env(tt.env)))
		})
	}
}

func TestSourceLine(t *testing.T) {
	t.Parallel()

	ch := Default().ClickHouse
	assert.Equal(t,
		"deb [signed-by=/usr/share/keyrings/clickhouse-keyring.gpg] https://packages.clickhouse.com/deb stable main",
		ch.SourceLine())
	assert.Equal(t, "en_US.UTF-8 UTF-8", Default().Locale.Entry())
}
