package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hosttest "github.com/imamik/hostprep/internal/testing"
)

func TestParsePasswd(t *testing.T) {
	t.Parallel()

	acct, err := ParsePasswd("alice:x:1000:1000:Alice,,,:/home/alice:/bin/bash\n")
	require.NoError(t, err)
	assert.Equal(t, &Account{Name: "alice", UID: 1000, GID: 1000, Home: "/home/alice", Shell: "/bin/bash"}, acct)
	assert.Equal(t, "/home/alice/.zshrc", acct.Path(".zshrc"))
	assert.Equal(t, "/home/alice/.oh-my-zsh", acct.Path("/.oh-my-zsh"))
}

func TestParsePasswd_Malformed(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"",
		"alice:x:1000",
		"alice:x:abc:1000::/home/alice:/bin/bash",
		"alice:x:1000:abc::/home/alice:/bin/bash",
		"alice:x:1000:1000:::/bin/bash",
	} {
		_, err := ParsePasswd(line)
		assert.Error(t, err, line)
	}
}

func TestLookupUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := New(hosttest.NewFakeHost().WithUser("alice", "/home/alice"))

	acct, err := h.LookupUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "/home/alice", acct.Home)
	assert.Equal(t, 1000, acct.UID)

	_, err = h.LookupUser(ctx, "nobody-here")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownUser))
}

func TestEffectiveUID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	uid, err := New(hosttest.NewFakeHost()).EffectiveUID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, uid)

	uid, err = New(hosttest.NewFakeHost().WithUID(1000)).EffectiveUID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000, uid)
}

func TestChangeShell(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := hosttest.NewFakeHost().WithUser("alice", "/home/alice")

	require.NoError(t, New(fake).ChangeShell(ctx, "alice", "/usr/bin/zsh"))
	assert.Equal(t, "/usr/bin/zsh", fake.Shell("alice"))
}
