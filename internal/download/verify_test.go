package download

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hosttest "github.com/imamik/hostprep/internal/testing"
)

func TestSanityCheck(t *testing.T) {
	t.Parallel()

	markers := []string{"#!/bin/sh", "oh-my-zsh"}

	require.NoError(t, SanityCheck("u", []byte(hosttest.OhMyZshScript), markers))

	err := SanityCheck("https://example.com/install.sh", []byte("<html>captive portal</html>"), markers)
	require.Error(t, err)

	var sanityErr *SanityError
	require.True(t, errors.As(err, &sanityErr))
	assert.Equal(t, []string{"#!/bin/sh", "oh-my-zsh"}, sanityErr.Missing)
	assert.Contains(t, err.Error(), `missing "#!/bin/sh", "oh-my-zsh"`)

	err = SanityCheck("u", []byte("#!/bin/sh\necho nothing\n"), markers)
	require.True(t, errors.As(err, &sanityErr))
	assert.Equal(t, []string{"oh-my-zsh"}, sanityErr.Missing)
}

func TestParseChecksum(t *testing.T) {
	t.Parallel()

	digest := sha256.Sum256([]byte("x"))
	hexDigest := hex.EncodeToString(digest[:])

	got, err := ParseChecksum([]byte(hexDigest + "  rustup-init.sh\n"))
	require.NoError(t, err)
	assert.Equal(t, hexDigest, got)

	got, err = ParseChecksum([]byte(" " + hexDigest + "\n"))
	require.NoError(t, err)
	assert.Equal(t, hexDigest, got)

	for _, bad := range []string{"", "abc", hexDigest[:62] + "zz"} {
		_, err := ParseChecksum([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestVerifyChecksum(t *testing.T) {
	t.Parallel()

	body := []byte(hosttest.RustupScript)
	digest := sha256.Sum256(body)

	require.NoError(t, VerifyChecksum("u", body, hex.EncodeToString(digest[:])))

	err := VerifyChecksum("u", []byte("tampered"), hex.EncodeToString(digest[:]))
	var sumErr *ChecksumError
	require.True(t, errors.As(err, &sumErr))
	assert.Equal(t, hex.EncodeToString(digest[:]), sumErr.Expected)
}
