package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/imamik/hostprep/internal/platform/shell"
	"github.com/imamik/hostprep/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 5
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// KnownHostsFile enables host key verification against an OpenSSH
	// known_hosts file. If empty and HostKeyCallback is nil, host keys
	// are not verified.
	KnownHostsFile string

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// MaxRetries is the maximum number of connection retry attempts.
	// If zero, defaultMaxRetries is used.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// HostKeyCallback overrides KnownHostsFile when set.
	HostKeyCallback ssh.HostKeyCallback

	// OnRetry is called before each reconnection attempt.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Client is a shell.Executor for a remote host.
// The SSH connection is established on first use and reused until Close.
type Client struct {
	config *Config
	signer ssh.Signer

	mu   sync.Mutex
	conn *ssh.Client
	sftp *sftp.Client
}

var _ shell.Executor = (*Client)(nil)

// NewClient creates a new SSH client and validates the private key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	// Copy config to avoid mutating caller's struct
	configCopy := *cfg

	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxRetries == 0 {
		configCopy.MaxRetries = defaultMaxRetries
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		if configCopy.KnownHostsFile != "" {
			callback, err := knownhosts.New(configCopy.KnownHostsFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load known hosts: %w", err)
			}
			configCopy.HostKeyCallback = callback
		} else {
			configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Opt-in verification via KnownHostsFile
		}
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		config: &configCopy,
		signer: signer,
	}, nil
}

// Target implements shell.Executor.
func (c *Client) Target() string {
	return c.address()
}

// Run implements shell.Executor.
func (c *Client) Run(ctx context.Context, cmd shell.Command) (shell.Result, error) {
	conn, err := c.connection(ctx)
	if err != nil {
		return shell.Result{}, err
	}

	session, err := conn.NewSession()
	if err != nil {
		return shell.Result{}, fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd.String()) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGTERM)
		return shell.Result{}, ctx.Err()
	case err = <-done:
	}

	res := shell.Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitStatus()
		return res, &shell.CommandError{Command: cmd, ExitCode: res.ExitCode, Output: res.Stdout + res.Stderr}
	}
	return res, fmt.Errorf("command failed on %s: %w", c.config.Host, err)
}

// ReadFile implements shell.Executor.
func (c *Client) ReadFile(ctx context.Context, name string) ([]byte, error) {
	fsys, err := c.files(ctx)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, wrapNotExist(name, err)
	}
	defer func() { _ = f.Close() }()

	return io.ReadAll(f)
}

// WriteFile implements shell.Executor.
func (c *Client) WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error {
	fsys, err := c.files(ctx)
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(path.Dir(name)); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", name, err)
	}

	f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	return fsys.Chmod(name, perm)
}

// Exists implements shell.Executor.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	fsys, err := c.files(ctx)
	if err != nil {
		return false, err
	}

	_, err = fsys.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", name, err)
}

// Remove implements shell.Executor.
func (c *Client) Remove(ctx context.Context, name string) error {
	fsys, err := c.files(ctx)
	if err != nil {
		return err
	}

	if err := fsys.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// Close releases the SFTP session and the SSH connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.sftp != nil {
		errs = append(errs, c.sftp.Close())
		c.sftp = nil
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
		c.conn = nil
	}
	return errors.Join(errs...)
}

func (c *Client) address() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

func (c *Client) connection(ctx context.Context) (*ssh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return conn, nil
}

func (c *Client) files(ctx context.Context) (*sftp.Client, error) {
	conn, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sftp != nil {
		return c.sftp, nil
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to start SFTP session on %s: %w", c.config.Host, err)
	}
	c.sftp = client
	return client, nil
}

// connect establishes SSH connection with retry logic.
// Only the dial is retried; commands run on the connection never are.
func (c *Client) connect(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(c.signer),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := c.address()
	var client *ssh.Client

	err := retry.WithExponentialBackoff(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, config)
		if dialErr != nil && isAuthFailure(dialErr) {
			return retry.Fatal(dialErr)
		}
		return dialErr
	},
		retry.WithMaxRetries(c.config.MaxRetries),
		retry.WithInitialDelay(c.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
		retry.WithNotify(c.config.OnRetry),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s after %d retry attempts: %w",
			addr, c.config.MaxRetries, err)
	}

	return client, nil
}

func isAuthFailure(err error) bool {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return true
	}
	return strings.Contains(err.Error(), "unable to authenticate")
}

func wrapNotExist(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return fmt.Errorf("failed to open %s: %w", name, err)
}
