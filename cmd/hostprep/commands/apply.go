package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostprep/cmd/hostprep/handlers"
)

// Apply returns the command that provisions the target host.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect hostprep.yaml)
//	--user: Target user for per-user tooling
//	--host, --ssh-user, --ssh-key: Provision a remote host over SSH
//	--metrics-file: Write Prometheus metrics for the run to this file
//
// Environment variables:
//
//	HOSTPREP_USER: Target user when --user is not given
//	SUDO_USER: Fallback target user when invoked through sudo
func Apply() *cobra.Command {
	var opts handlers.TargetOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision the host",
		Long: `Provision the host with the configured stages.

Stages run in a fixed order: preflight, system update, locale and timezone,
zsh and oh-my-zsh, Rust, PostgreSQL, ClickHouse, SQLite, cleanup and a
summary. Each stage checks the current state first and only changes what is
missing, so apply can be re-run at any time.

apply must run as root on the target. Per-user tooling is installed for the
user given by --user, HOSTPREP_USER, the config file or SUDO_USER, in that
order.

Examples:
  # Provision this machine for the user who invoked sudo
  sudo hostprep apply

  # Use a specific config file and user
  sudo hostprep apply -c hostprep.yaml --user deploy

  # Provision a remote host over SSH
  hostprep apply --host 203.0.113.10 --ssh-key ~/.ssh/id_ed25519 --user deploy

  # Structured logs and a node_exporter textfile
  sudo hostprep apply --log-format json --metrics-file /var/lib/node_exporter/hostprep.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	bindTargetFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	return cmd
}
