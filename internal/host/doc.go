// Package host wraps a shell.Executor with the predicates and mutations the
// provisioning stages need: executable lookup, idempotent file edits, APT,
// systemd units, account lookup and locale/timezone queries.
//
// Predicates never mutate. Mutations are written so that applying them to a
// host already in the desired state is a no-op.
package host
