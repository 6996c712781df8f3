// Package provisioning runs hostprep's stages against a target host.
//
// A run is a Pipeline of Phases executed strictly in order on a single
// goroutine. Each Phase receives a Context that carries the configuration,
// the target Host, the downloader, the Observer and the shared State that
// earlier phases populate (most notably the resolved target account).
// The first failing phase stops the run; nothing is retried or rolled back.
//
// The stage implementations live in the stages subpackage. This package
// holds the shared types, the typed errors that map to process exit codes,
// and the observability plumbing (console and logr observers, metrics).
package provisioning
