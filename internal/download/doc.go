// Package download fetches installer scripts and signing keys.
//
// Installer scripts get a content sanity check before they are run: every
// configured marker string must appear in the body. This catches truncated
// downloads, captive portals and error pages served with status 200. It is
// a heuristic and not a signature verification; a hostile server can pass
// it trivially. When a checksum URL is configured the SHA-256 is compared
// as well.
package download
