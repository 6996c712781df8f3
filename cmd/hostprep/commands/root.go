// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing
// and flag binding. Command execution is delegated to handler functions in the
// handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the hostprep CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hostprep",
		Short: "Provision a Debian server for development and data work",
		// Errors are printed once by main with the mapped exit code.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
