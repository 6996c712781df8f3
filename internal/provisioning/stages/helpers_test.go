package stages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/provisioning"
	hosttest "github.com/imamik/hostprep/internal/testing"
)

const (
	testUser = "alice"
	testHome = "/home/alice"
)

// newHost returns a fresh fake host with the test account.
func newHost() *hosttest.FakeHost {
	return hosttest.NewFakeHost().WithUser(testUser, testHome)
}

// newFetcher serves the default installer and key URLs.
func newFetcher(t *testing.T) *hosttest.FakeFetcher {
	t.Helper()
	key, err := hosttest.ArmoredTestKey()
	require.NoError(t, err)

	return hosttest.NewFakeFetcher().
		With(config.DefaultOhMyZshURL, []byte(hosttest.OhMyZshScript)).
		With(config.DefaultRustupURL, []byte(hosttest.RustupScript)).
		With(config.DefaultClickHouseKeyURL, key)
}

// newContext builds a run context with HOSTPREP_USER pointing at the test
// account. out receives console output.
func newContext(fake *hosttest.FakeHost, fetcher *hosttest.FakeFetcher, cfg *config.Config, out *bytes.Buffer) *provisioning.Context {
	if cfg == nil {
		cfg = config.Default()
	}
	if out == nil {
		out = &bytes.Buffer{}
	}
	ctx := provisioning.NewContext(context.Background(), cfg, host.New(fake), fetcher, provisioning.NewConsoleObserver(out, false))
	ctx.Getenv = func(key string) string {
		if key == config.EnvUser {
			return testUser
		}
		return ""
	}
	return ctx
}

// runAll runs the default stages and returns the context for inspection.
func runAll(fake *hosttest.FakeHost, fetcher *hosttest.FakeFetcher, cfg *config.Config) (*provisioning.Context, string, error) {
	var out bytes.Buffer
	ctx := newContext(fake, fetcher, cfg, &out)
	err := provisioning.NewPipeline(Default(&out)...).Run(ctx)
	return ctx, out.String(), err
}

// runStages runs preflight followed by the given stages.
func runStages(ctx *provisioning.Context, phases ...provisioning.Phase) error {
	all := append([]provisioning.Phase{NewPreflight()}, phases...)
	return provisioning.NewPipeline(all...).Run(ctx)
}
