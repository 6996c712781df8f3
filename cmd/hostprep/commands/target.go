package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostprep/cmd/hostprep/handlers"
	"github.com/imamik/hostprep/internal/config"
)

// bindTargetFlags registers the flags shared by apply and doctor.
func bindTargetFlags(cmd *cobra.Command, opts *handlers.TargetOptions) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: hostprep.yaml)")
	cmd.Flags().StringVar(&opts.User, "user", "", "Target user for per-user tooling (overrides "+config.EnvUser+" and the config file)")
	cmd.Flags().StringVar(&opts.Host, "host", "", "Provision a remote host over SSH instead of the local machine")
	cmd.Flags().StringVar(&opts.SSHUser, "ssh-user", "", "SSH login user (default: root)")
	cmd.Flags().StringVar(&opts.SSHKey, "ssh-key", "", "Path to the SSH private key")
	cmd.Flags().IntVar(&opts.SSHPort, "ssh-port", 0, "SSH port (default: 22)")
	cmd.Flags().StringVar(&opts.KnownHosts, "known-hosts", "", "OpenSSH known_hosts file for host key verification")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", handlers.LogFormatText, "Log output format: text or json")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show debug output")
}
