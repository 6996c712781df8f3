package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/download"
	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/provisioning"
)

func TestClickHouse_FreshInstall(t *testing.T) {
	t.Parallel()
	fake := newHost()
	fetcher := newFetcher(t)
	cfg := config.Default().ClickHouse

	ctx := newContext(fake, fetcher, nil, nil)
	require.NoError(t, runStages(ctx, NewClickHouse()))

	armored := fetcher.Responses[cfg.KeyURL]
	key, err := download.Dearmor(armored)
	require.NoError(t, err)
	assert.Equal(t, key.Binary, []byte(fake.File(cfg.KeyringPath)), "keyring holds the dearmored key")

	assert.Equal(t,
		"deb [signed-by=/usr/share/keyrings/clickhouse-keyring.gpg] https://packages.clickhouse.com/deb stable main\n",
		fake.File(cfg.SourceFile))
	assert.Equal(t, []string{"clickhouse-server", "clickhouse-client"}, fake.Installs)

	svc := fake.Service(cfg.Service)
	require.NotNil(t, svc)
	assert.True(t, svc.Active)
	assert.True(t, svc.Enabled)
}

func TestClickHouse_ReusesExistingRepoSetup(t *testing.T) {
	t.Parallel()
	fake := newHost()
	fetcher := newFetcher(t)
	cfg := config.Default().ClickHouse

	fake.Files[cfg.KeyringPath] = []byte("existing keyring")
	fake.Files[cfg.SourceFile] = []byte("# managed elsewhere\n" + cfg.SourceLine() + "\n")

	ctx := newContext(fake, fetcher, nil, nil)
	require.NoError(t, runStages(ctx, NewClickHouse()))

	assert.Zero(t, fetcher.CallCount(cfg.KeyURL))
	assert.Equal(t, "existing keyring", fake.File(cfg.KeyringPath))
	assert.Equal(t, 1, host.CountActive(fake.File(cfg.SourceFile), cfg.SourceLine()))
	assert.Contains(t, fake.Binaries, cfg.Client)
}

func TestClickHouse_BadKey(t *testing.T) {
	t.Parallel()
	fake := newHost()
	cfg := config.Default().ClickHouse
	fetcher := newFetcher(t).With(cfg.KeyURL, []byte("<html>not a key</html>"))

	ctx := newContext(fake, fetcher, nil, nil)
	err := runStages(ctx, NewClickHouse())

	var integrity *provisioning.IntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.NotContains(t, fake.Files, cfg.KeyringPath)
	assert.NotContains(t, fake.Files, cfg.SourceFile)
	assert.Empty(t, fake.Installs)
}

func TestClickHouse_InstalledOnlyChecksService(t *testing.T) {
	t.Parallel()
	fake := newHost()
	fetcher := newFetcher(t)
	fake.Binaries["clickhouse-client"] = "/usr/bin/clickhouse-client"
	fake.Services["clickhouse-server"] = newService(true, false)

	ctx := newContext(fake, fetcher, nil, nil)
	require.NoError(t, runStages(ctx, NewClickHouse()))

	assert.Empty(t, fetcher.Calls)
	assert.Empty(t, fake.Installs)
	assert.False(t, fake.Ran("systemctl start"))
	assert.True(t, fake.Ran("systemctl enable clickhouse-server"))
}
