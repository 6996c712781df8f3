// Package main is the entry point for the hostprep CLI.
//
// hostprep turns a freshly installed Debian server into a development and
// data host: system packages, locale and timezone, zsh with oh-my-zsh, a
// rustup toolchain, PostgreSQL, ClickHouse and SQLite. Every stage checks
// before it changes anything, so repeated runs are safe.
//
// Commands: init, apply, doctor, version, completion.
//
// For detailed usage information, run:
//
//	hostprep --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/hostprep/cmd/hostprep/commands"
	"github.com/imamik/hostprep/internal/provisioning"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(provisioning.ExitCode(err))
	}
}
