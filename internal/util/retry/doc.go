// Package retry provides exponential backoff for establishing connections.
//
// hostprep never retries provisioning commands. The only operation that is
// retried is opening the SSH connection to a remote target, which may not
// accept connections yet right after the server boots.
package retry
