package testing

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// FakeFetcher returns canned bodies keyed by URL.
type FakeFetcher struct {
	mu        sync.Mutex
	Responses map[string][]byte
	Errors    map[string]error
	Calls     []string
}

// NewFakeFetcher returns a fetcher with no responses.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{
		Responses: map[string][]byte{},
		Errors:    map[string]error{},
	}
}

// With registers body for url.
func (f *FakeFetcher) With(url string, body []byte) *FakeFetcher {
	f.Responses[url] = body
	return f
}

// Fetch returns the registered body for url.
func (f *FakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, url)
	if err, ok := f.Errors[url]; ok {
		return nil, err
	}
	body, ok := f.Responses[url]
	if !ok {
		return nil, fmt.Errorf("GET %s: 404 Not Found", url)
	}
	return append([]byte(nil), body...), nil
}

// CallCount returns how many times url was fetched.
func (f *FakeFetcher) CallCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == url {
			n++
		}
	}
	return n
}

// ArmoredTestKey generates an ed25519 OpenPGP public key in ASCII armor.
func ArmoredTestKey() ([]byte, error) {
	entity, err := openpgp.NewEntity("hostprep test", "", "test@example.com", &packet.Config{
		Algorithm: packet.PubKeyAlgoEdDSA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, err
	}
	if err := entity.Serialize(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OhMyZshScript is a minimal installer that passes the default sanity check.
const OhMyZshScript = "#!/bin/sh\n# installs oh-my-zsh\nmain() { echo ok; }\nmain \"$@\"\n"

// RustupScript is a minimal installer that passes the default sanity check.
const RustupScript = "#!/bin/sh\n# rustup shell setup\nmain() { echo rustup; }\nmain \"$@\"\n"
