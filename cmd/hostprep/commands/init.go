package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostprep/cmd/hostprep/handlers"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "hostprep.yaml")
//	--force, -f: Overwrite an existing file without asking
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a hostprep configuration file.

The wizard asks for:

  - The target user for per-user tooling
  - Locale and timezone
  - Which optional stages to run (zsh, Rust, PostgreSQL, ClickHouse, SQLite)
  - The Rust toolchain and components

Everything else keeps its built-in default and can be edited in the
generated YAML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "hostprep.yaml", "Output file path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file without asking")

	return cmd
}
