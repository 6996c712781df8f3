package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostprep/cmd/hostprep/handlers"
)

// Doctor returns the command that reports the provisioning state of a host
// without changing it.
func Doctor() *cobra.Command {
	var (
		opts       handlers.TargetOptions
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check what is provisioned on the host",
		Long: `Inspect the host and report tools, services, locale and timezone.

doctor only reads. It does not require root and exits non-zero when any
enabled stage is not fully in place.

Examples:
  hostprep doctor
  hostprep doctor --json
  hostprep doctor --host 203.0.113.10 --ssh-key ~/.ssh/id_ed25519`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), opts, jsonOutput)
		},
	}

	bindTargetFlags(cmd, &opts)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
