package handlers

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/download"
	"github.com/imamik/hostprep/internal/platform/shell"
	"github.com/imamik/hostprep/internal/platform/ssh"
	hosttest "github.com/imamik/hostprep/internal/testing"
)

// saveAndRestoreFactories restores every factory variable after the test.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfig := loadConfig
	origNewLocalExecutor := newLocalExecutor
	origNewRemoteExecutor := newRemoteExecutor
	origNewFetcher := newFetcher
	origReadFile := readFile
	origStdout := stdout
	origStderr := stderr
	origFileExists := fileExists
	origRunWizard := runWizard
	origWriteConfig := writeConfig
	origInteractive := interactive
	origConfirmOverwrite := confirmOverwrite

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		newLocalExecutor = origNewLocalExecutor
		newRemoteExecutor = origNewRemoteExecutor
		newFetcher = origNewFetcher
		readFile = origReadFile
		stdout = origStdout
		stderr = origStderr
		fileExists = origFileExists
		runWizard = origRunWizard
		writeConfig = origWriteConfig
		interactive = origInteractive
		confirmOverwrite = origConfirmOverwrite
	})
}

// fakeTarget wires the handlers to a fake host and fetcher and returns the
// buffers standing in for stdout and stderr.
func fakeTarget(t *testing.T, fake *hosttest.FakeHost) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	saveAndRestoreFactories(t)

	key, err := hosttest.ArmoredTestKey()
	require.NoError(t, err)
	fetcher := hosttest.NewFakeFetcher().
		With(config.DefaultOhMyZshURL, []byte(hosttest.OhMyZshScript)).
		With(config.DefaultRustupURL, []byte(hosttest.RustupScript)).
		With(config.DefaultClickHouseKeyURL, key)

	loadConfig = func(string) (*config.Config, string, error) {
		return config.Default(), "", nil
	}
	newLocalExecutor = func() shell.Executor { return fake }
	newRemoteExecutor = func(*ssh.Config) (remoteExecutor, error) {
		t.Fatal("unexpected SSH connection")
		return nil, nil
	}
	newFetcher = func(time.Duration) download.Fetcher { return fetcher }

	var out, errOut bytes.Buffer
	stdout = &out
	stderr = &errOut
	return &out, &errOut
}

func newFakeHost() *hosttest.FakeHost {
	return hosttest.NewFakeHost().WithUser("alice", "/home/alice")
}
