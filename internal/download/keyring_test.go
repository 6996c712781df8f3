package download

import (
	"bytes"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hosttest "github.com/imamik/hostprep/internal/testing"
)

func TestDearmor(t *testing.T) {
	t.Parallel()

	armored, err := hosttest.ArmoredTestKey()
	require.NoError(t, err)

	key, err := Dearmor(armored)
	require.NoError(t, err)
	require.Len(t, key.Fingerprints, 1)
	assert.Len(t, key.Fingerprints[0], 40)
	assert.NotEmpty(t, key.Binary)

	// The dearmored bytes are a binary keyring that reads back to the same key.
	entities, err := openpgp.ReadKeyRing(bytes.NewReader(key.Binary))
	require.NoError(t, err)
	assert.Len(t, entities, 1)
}

func TestDearmor_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Dearmor([]byte("<html>not a key</html>"))
	assert.Error(t, err)

	_, err = Dearmor([]byte("-----BEGIN PGP MESSAGE-----\n\nAAAA\n-----END PGP MESSAGE-----\n"))
	assert.Error(t, err)
}
