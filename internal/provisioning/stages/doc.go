// Package stages implements the provisioning phases hostprep runs against
// a Debian host.
//
// Every stage observes before it mutates: a package is only installed when
// its executable is missing, a file line is only appended when absent, and a
// service is only started or enabled when it is not already. Running the
// full list twice leaves the host unchanged the second time.
package stages
