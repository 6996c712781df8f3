package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_CommentsOnly(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, cfg.Locale.Name)
}

func TestParse_OverridesKeepDefaults(t *testing.T) {
	t.Parallel()

	data := []byte(`
user: alice
locale:
  name: de_DE.UTF-8
  timezone: Europe/Berlin
rust:
  toolchain: nightly
  components: [rustfmt]
clickhouse:
  enabled: false
download:
  timeout: 30s
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "de_DE.UTF-8", cfg.Locale.Name)
	assert.Equal(t, "Europe/Berlin", cfg.Locale.Timezone)
	assert.Equal(t, DefaultCharset, cfg.Locale.Charset, "unset key keeps default")
	assert.Equal(t, DefaultLocaleGenFile, cfg.Locale.GenFile)
	assert.Equal(t, "nightly", cfg.Rust.Toolchain)
	assert.Equal(t, []string{"rustfmt"}, cfg.Rust.Components)
	assert.Equal(t, DefaultRustupURL, cfg.Rust.Installer.URL)
	assert.False(t, cfg.ClickHouse.Enabled)
	assert.True(t, cfg.Postgres.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Download.Timeout)
}

func TestParse_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("usr: alice\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestParse_InvalidValues(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("locale:\n  name: \"not a locale\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hostprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: bob\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.User)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sqlite:\n  enabled: false\n"), 0o600))

	cfg, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.False(t, cfg.SQLite.Enabled)
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.User = "carol"
	cfg.Locale.Timezone = "America/New_York"

	data, err := Marshal(cfg)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}
