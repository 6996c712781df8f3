package download

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// Key is a dearmored OpenPGP public key ready to be written as an APT keyring.
type Key struct {
	// Binary is the dearmored key material, equivalent to `gpg --dearmor`.
	Binary []byte

	// Fingerprints lists the primary key fingerprints, upper-case hex.
	Fingerprints []string
}

// Dearmor decodes an ASCII-armored public key block and checks that it
// parses as at least one OpenPGP public key.
func Dearmor(data []byte) (*Key, error) {
	block, err := armor.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode armored key: %w", err)
	}
	if block.Type != openpgp.PublicKeyType {
		return nil, fmt.Errorf("unexpected armor block type %q", block.Type)
	}

	binary, err := io.ReadAll(block.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read armored key: %w", err)
	}

	entities, err := openpgp.ReadKeyRing(bytes.NewReader(binary))
	if err != nil {
		return nil, fmt.Errorf("failed to parse key: %w", err)
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("armored block contains no keys")
	}

	key := &Key{Binary: binary}
	for _, e := range entities {
		key.Fingerprints = append(key.Fingerprints, strings.ToUpper(fmt.Sprintf("%x", e.PrimaryKey.Fingerprint)))
	}
	return key, nil
}
