package stages

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/download"
	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/provisioning"
	hosttest "github.com/imamik/hostprep/internal/testing"
)

const checksumURL = "https://static.rust-lang.org/rustup/dist/x86_64-unknown-linux-gnu/rustup-init.sha256"

func rustupDigest() string {
	sum := sha256.Sum256([]byte(hosttest.RustupScript))
	return hex.EncodeToString(sum[:])
}

func TestRust_FreshInstall(t *testing.T) {
	t.Parallel()
	fake := newHost()

	ctx := newContext(fake, newFetcher(t), nil, nil)
	require.NoError(t, runStages(ctx, NewRust()))

	require.Len(t, fake.Scripts, 1)
	assert.True(t, strings.HasPrefix(fake.Scripts[0], "/tmp/hostprep-rustup-init.sh."), fake.Scripts[0])
	assert.NotContains(t, fake.Files, fake.Scripts[0], "installer removed")
	assert.Contains(t, fake.Files, testHome+"/.cargo/bin/rustc")
	for _, c := range []string{"rustfmt", "clippy", "rust-src", "rust-analyzer"} {
		assert.True(t, fake.RustComponents[testUser][c], c)
	}
	assert.Equal(t, ". \"$HOME/.cargo/env\"\n", fake.File(testHome+"/.zshrc"))
	assert.Equal(t, testUser, fake.Owners[testHome+"/.zshrc"])
	assert.False(t, fake.Ran("rustup update"))
}

func TestRust_RerunsKeepOneEnvLine(t *testing.T) {
	t.Parallel()
	fake := newHost()
	fake.Files[testHome+"/.zshrc"] = []byte("export ZSH=\"$HOME/.oh-my-zsh\"")
	fetcher := newFetcher(t)

	for range 3 {
		ctx := newContext(fake, fetcher, nil, nil)
		require.NoError(t, runStages(ctx, NewRust()))
	}

	rc := fake.File(testHome + "/.zshrc")
	assert.Equal(t, 1, host.CountActive(rc, config.DefaultRustEnvLine))
	assert.Equal(t, "export ZSH=\"$HOME/.oh-my-zsh\"\n. \"$HOME/.cargo/env\"\n", rc)
	assert.Len(t, fake.Scripts, 1)
	assert.Equal(t, 1, fetcher.CallCount(config.DefaultRustupURL))
	assert.Equal(t, 2, fake.CountRan(testHome+"/.cargo/bin/rustup update"))
	assert.Equal(t, 1, fake.CountRan(testHome+"/.cargo/bin/rustup component add"))
}

func TestRust_EnvLineLinkedToRootFile(t *testing.T) {
	t.Parallel()
	fake := newHost()
	fake.Files["/etc/shadow"] = []byte("root:*:19000:0:99999:7:::\n")
	fake.Perms["/etc/shadow"] = 0o600
	fake.Links[testHome+"/.zshrc"] = "/etc/shadow"

	ctx := newContext(fake, newFetcher(t), nil, nil)
	err := runStages(ctx, NewRust())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Permission denied")

	assert.Equal(t, "root:*:19000:0:99999:7:::\n", fake.File("/etc/shadow"))
	assert.NotContains(t, fake.Owners, "/etc/shadow")
	assert.Equal(t, fs.FileMode(0o600), fake.Perms["/etc/shadow"])
	for _, c := range fake.Commands {
		assert.NotEqual(t, "chown", c.Name)
		if slices.Contains(c.Args, testHome+"/.zshrc") {
			assert.Equal(t, testUser, c.User, "%s touches the rc file as root", c.Display())
		}
	}
}

func TestRust_InstallerNeverReusesExistingFile(t *testing.T) {
	t.Parallel()
	fake := newHost()
	const planted = "/tmp/hostprep-rustup-init.sh"
	fake.Files[planted] = []byte("#!/bin/sh\necho replaced\n")
	fake.Owners[planted] = "nobody"
	fake.Perms[planted] = 0o666
	fake.Files[planted+".0000000000"] = []byte("#!/bin/sh\necho replaced\n")
	fake.Owners[planted+".0000000000"] = "nobody"

	ctx := newContext(fake, newFetcher(t), nil, nil)
	require.NoError(t, runStages(ctx, NewRust()))

	require.Len(t, fake.Scripts, 1)
	script := fake.Scripts[0]
	assert.NotEqual(t, planted, script)
	assert.NotEqual(t, planted+".0000000000", script)
	assert.True(t, fake.Ran("mktemp "+planted+".XXXXXXXXXX"))
	assert.True(t, fake.Ran("chmod 644 "+script))

	assert.Equal(t, "#!/bin/sh\necho replaced\n", fake.File(planted))
	assert.Equal(t, "nobody", fake.Owners[planted])
	assert.Equal(t, fs.FileMode(0o666), fake.Perms[planted])
	assert.Equal(t, "#!/bin/sh\necho replaced\n", fake.File(planted+".0000000000"))
}

func TestRust_AddsOnlyMissingComponents(t *testing.T) {
	t.Parallel()
	fake := newHost()
	fake.Files[testHome+"/.cargo/bin/rustc"] = []byte{}
	fake.Files[testHome+"/.cargo/bin/rustup"] = []byte{}
	fake.RustComponents[testUser] = map[string]bool{"rustc": true, "cargo": true, "rustfmt": true, "clippy": true}

	ctx := newContext(fake, newFetcher(t), nil, nil)
	require.NoError(t, runStages(ctx, NewRust()))

	assert.True(t, fake.Ran(testHome+"/.cargo/bin/rustup component add rust-src rust-analyzer"))
	assert.Empty(t, fake.Scripts)
}

func TestRust_RustcWithoutRustupWarns(t *testing.T) {
	t.Parallel()
	fake := newHost()
	fake.Files[testHome+"/.cargo/bin/rustc"] = []byte{}

	ctx := newContext(fake, newFetcher(t), nil, nil)
	require.NoError(t, runStages(ctx, NewRust()))

	require.Len(t, ctx.State.Warnings(), 1)
	assert.Equal(t, "rust toolchain", ctx.State.Warnings()[0].Subject)
	assert.Empty(t, fake.Scripts)
	assert.Contains(t, fake.File(testHome+"/.zshrc"), config.DefaultRustEnvLine)
}

func TestRust_Checksum(t *testing.T) {
	t.Parallel()

	t.Run("match", func(t *testing.T) {
		t.Parallel()
		fake := newHost()
		cfg := config.Default()
		cfg.Rust.Installer.ChecksumURL = checksumURL
		fetcher := newFetcher(t).With(checksumURL, []byte(rustupDigest()+"  rustup-init\n"))

		ctx := newContext(fake, fetcher, cfg, nil)
		require.NoError(t, runStages(ctx, NewRust()))
		assert.Len(t, fake.Scripts, 1)
		assert.Empty(t, ctx.State.Warnings())
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()
		fake := newHost()
		cfg := config.Default()
		cfg.Rust.Installer.ChecksumURL = checksumURL
		bad := sha256.Sum256([]byte("something else"))
		fetcher := newFetcher(t).With(checksumURL, []byte(hex.EncodeToString(bad[:])))

		ctx := newContext(fake, fetcher, cfg, nil)
		err := runStages(ctx, NewRust())

		var integrity *provisioning.IntegrityError
		require.ErrorAs(t, err, &integrity)
		var mismatch *download.ChecksumError
		require.ErrorAs(t, err, &mismatch)
		assert.Empty(t, fake.Scripts)
	})

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()
		fake := newHost()
		cfg := config.Default()
		cfg.Rust.Installer.ChecksumURL = checksumURL
		fetcher := newFetcher(t)
		fetcher.Errors[checksumURL] = errors.New("connection reset")

		ctx := newContext(fake, fetcher, cfg, nil)
		require.NoError(t, runStages(ctx, NewRust()))

		require.Len(t, ctx.State.Warnings(), 1)
		assert.Equal(t, "rustup installer checksum", ctx.State.Warnings()[0].Subject)
		assert.Len(t, fake.Scripts, 1)
	})
}

func TestRust_BadInstaller(t *testing.T) {
	t.Parallel()
	fake := newHost()
	fetcher := newFetcher(t).With(config.DefaultRustupURL, []byte("#!/bin/sh\necho pwned\n"))

	ctx := newContext(fake, fetcher, nil, nil)
	err := runStages(ctx, NewRust())

	var integrity *provisioning.IntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Empty(t, fake.Scripts)
	assert.NotContains(t, fake.Files, testHome+"/.zshrc")
}

func TestHasComponent(t *testing.T) {
	t.Parallel()
	installed := []string{
		"cargo-x86_64-unknown-linux-gnu",
		"rust-src",
		"rustfmt-aarch64-unknown-linux-gnu",
		"rust-analyzer-preview-x86_64-unknown-linux-gnu",
		"rustc-dev-x86_64-unknown-linux-gnu",
	}

	assert.True(t, hasComponent(installed, "rust-src"))
	assert.True(t, hasComponent(installed, "rustfmt"))
	assert.True(t, hasComponent(installed, "cargo"))
	assert.True(t, hasComponent(installed, "rust-analyzer-preview"))
	assert.True(t, hasComponent(installed, "rustc-dev"))
	assert.False(t, hasComponent(installed, "clippy"))
	assert.False(t, hasComponent(installed, "rust-analyzer"), "preview component is a different one")
	assert.False(t, hasComponent(installed, "rustc"), "rustc-dev is not rustc")
	assert.False(t, hasComponent(installed, "rust"))
}
