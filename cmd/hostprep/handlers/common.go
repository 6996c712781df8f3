// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/download"
	"github.com/imamik/hostprep/internal/platform/shell"
	"github.com/imamik/hostprep/internal/platform/ssh"
	"github.com/imamik/hostprep/internal/provisioning"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// TargetOptions carries the flags shared by apply and doctor.
type TargetOptions struct {
	ConfigPath string
	User       string

	Host       string
	SSHUser    string
	SSHKey     string
	SSHPort    int
	KnownHosts string

	LogFormat   string
	Verbose     bool
	MetricsFile string
}

// remoteExecutor is an executor holding a connection that must be closed.
type remoteExecutor interface {
	shell.Executor
	Close() error
}

var userAgent = "hostprep/dev"

// SetVersion sets the version reported in the download User-Agent.
func SetVersion(v string) {
	userAgent = "hostprep/" + v
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads the config file, auto-detecting it when path is empty.
	loadConfig = config.Load

	// newLocalExecutor runs commands on this machine.
	newLocalExecutor = func() shell.Executor {
		return shell.NewLocalExecutor()
	}

	// newRemoteExecutor connects to a host over SSH.
	newRemoteExecutor = func(cfg *ssh.Config) (remoteExecutor, error) {
		return ssh.NewClient(cfg)
	}

	// newFetcher downloads installers and keys.
	newFetcher = func(timeout time.Duration) download.Fetcher {
		return download.NewHTTPFetcher(timeout, userAgent)
	}

	// readFile reads the SSH private key.
	readFile = os.ReadFile

	// stdout receives reports, stderr receives progress output.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// prepareConfig loads the config and applies flag overrides on top.
func prepareConfig(opts TargetOptions) (*config.Config, string, error) {
	cfg, path, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, "", &provisioning.ConfigurationError{Msg: "failed to load config", Err: err}
	}

	cfg.UserOverride = opts.User
	if opts.Host != "" {
		cfg.SSH.Host = opts.Host
	}
	if opts.SSHUser != "" {
		cfg.SSH.User = opts.SSHUser
	}
	if opts.SSHKey != "" {
		cfg.SSH.KeyFile = opts.SSHKey
	}
	if opts.SSHPort != 0 {
		cfg.SSH.Port = opts.SSHPort
	}
	if opts.KnownHosts != "" {
		cfg.SSH.KnownHostsFile = opts.KnownHosts
	}
	if opts.MetricsFile != "" {
		cfg.Metrics.TextfilePath = opts.MetricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", &provisioning.ConfigurationError{Msg: "invalid configuration", Err: err}
	}
	return cfg, path, nil
}

// connect returns the executor for the configured target. The returned
// func releases it.
func connect(cfg *config.Config, observer provisioning.Observer) (shell.Executor, func(), error) {
	if !cfg.SSH.Remote() {
		return newLocalExecutor(), func() {}, nil
	}

	key, err := readFile(expandHome(cfg.SSH.KeyFile))
	if err != nil {
		return nil, nil, &provisioning.ConfigurationError{Msg: "failed to read SSH key", Err: err}
	}

	user := cfg.SSH.User
	if user == "" {
		user = "root"
	}
	port := cfg.SSH.Port
	if port == 0 {
		port = config.DefaultSSHPort
	}

	client, err := newRemoteExecutor(&ssh.Config{
		Host:           cfg.SSH.Host,
		Port:           port,
		User:           user,
		PrivateKey:     key,
		KnownHostsFile: expandHome(cfg.SSH.KnownHostsFile),
		OnRetry: func(attempt int, err error, wait time.Duration) {
			observer.Printf("ssh connection attempt %d failed: %v (retrying in %v)", attempt, err, wait)
		},
	})
	if err != nil {
		return nil, nil, &provisioning.ConfigurationError{Msg: "invalid SSH settings", Err: err}
	}

	return client, func() { _ = client.Close() }, nil
}

// newObserver returns the observer for the requested log format and a
// func that flushes it.
func newObserver(format string, verbose bool) (provisioning.Observer, func(), error) {
	switch format {
	case "", LogFormatText:
		return provisioning.NewConsoleObserver(stderr, verbose), func() {}, nil
	case LogFormatJSON:
		log, flush, err := provisioning.NewZapLogger(verbose)
		if err != nil {
			return nil, nil, err
		}
		return provisioning.NewLogrObserver(log), flush, nil
	default:
		return nil, nil, &provisioning.ConfigurationError{
			Msg: fmt.Sprintf("unknown log format %q (want %s or %s)", format, LogFormatText, LogFormatJSON),
		}
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
