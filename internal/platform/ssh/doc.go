// Package ssh provides a remote shell.Executor over SSH.
//
// It is used when hostprep provisions a server other than the one it runs
// on. Commands run in SSH sessions; files are read and written over SFTP
// on the same connection. The login user must be root, since every stage
// assumes root privileges and drops them with runuser where needed.
package ssh
