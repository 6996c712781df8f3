package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// LocalExecutor runs commands on the machine hostprep itself runs on.
type LocalExecutor struct{}

// NewLocalExecutor returns an executor for the local host.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{}
}

// Run implements Executor.
func (e *LocalExecutor) Run(ctx context.Context, cmd Command) (Result, error) {
	argv := cmd.Argv()

	// #nosec G204 - argv is built from fixed stage definitions and validated config
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &CommandError{Command: cmd, ExitCode: res.ExitCode, Output: res.Stdout + res.Stderr}
	}
	return res, fmt.Errorf("failed to start %s: %w", cmd.Name, err)
}

// ReadFile implements Executor.
func (e *LocalExecutor) ReadFile(_ context.Context, path string) ([]byte, error) {
	// #nosec G304 - paths come from stage definitions
	return os.ReadFile(path)
}

// WriteFile implements Executor.
func (e *LocalExecutor) WriteFile(_ context.Context, path string, data []byte, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", path, err)
	}
	return os.WriteFile(path, data, perm)
}

// Exists implements Executor.
func (e *LocalExecutor) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Remove implements Executor.
func (e *LocalExecutor) Remove(_ context.Context, path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Target implements Executor.
func (e *LocalExecutor) Target() string {
	return "localhost"
}
