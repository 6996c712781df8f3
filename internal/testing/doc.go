// Package testing provides fakes shared by hostprep's unit tests.
//
//   - FakeHost: an in-memory Debian host implementing shell.Executor that
//     understands the commands the stages issue (apt-get, systemctl,
//     getent, locale-gen, runuser-wrapped installers, rustup, ...).
//   - FakeFetcher: canned HTTP responses keyed by URL.
//   - ArmoredTestKey: a throwaway OpenPGP public key in ASCII armor.
//
// Usage:
//
//	fake := testing.NewFakeHost().WithUser("alice", "/home/alice")
//	h := host.New(fake)
package testing
