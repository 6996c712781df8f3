// Package shell defines how hostprep talks to a target host.
//
// Every interaction with the machine being provisioned goes through the
// Executor interface: running commands (optionally as another user),
// reading and writing files, and checking paths. The local implementation
// lives here; the SSH implementation lives in internal/platform/ssh.
package shell
