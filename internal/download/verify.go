package download

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SanityError reports installer content that lacks required markers.
type SanityError struct {
	URL     string
	Missing []string
}

func (e *SanityError) Error() string {
	return fmt.Sprintf("content from %s failed sanity check: missing %s", e.URL, strings.Join(quoteAll(e.Missing), ", "))
}

// ChecksumError reports a SHA-256 mismatch.
type ChecksumError struct {
	URL      string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", e.URL, e.Expected, e.Actual)
}

// SanityCheck verifies that every marker occurs in body.
// See the package documentation for what this does and does not prove.
func SanityCheck(url string, body []byte, markers []string) error {
	var missing []string
	for _, m := range markers {
		if !bytes.Contains(body, []byte(m)) {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		return &SanityError{URL: url, Missing: missing}
	}
	return nil
}

// ParseChecksum extracts the hex digest from sha256sum output
// ("<hex>  <file>") or a bare digest.
func ParseChecksum(data []byte) (string, error) {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty checksum file")
	}
	sum := strings.ToLower(fields[0])
	if len(sum) != sha256.Size*2 {
		return "", fmt.Errorf("checksum %q is not a SHA-256 digest", fields[0])
	}
	if _, err := hex.DecodeString(sum); err != nil {
		return "", fmt.Errorf("checksum %q is not hex: %w", fields[0], err)
	}
	return sum, nil
}

// VerifyChecksum compares the SHA-256 of body to expected.
func VerifyChecksum(url string, body []byte, expected string) error {
	digest := sha256.Sum256(body)
	actual := hex.EncodeToString(digest[:])
	if actual != strings.ToLower(expected) {
		return &ChecksumError{URL: url, Expected: expected, Actual: actual}
	}
	return nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
