package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/config/wizard"
)

func wizardAnswers(context.Context, string) (*wizard.Result, error) {
	return &wizard.Result{
		User:       "deploy",
		Locale:     "en_GB.UTF-8",
		Timezone:   "Europe/London",
		Stages:     []string{wizard.StageShell, wizard.StageRust, wizard.StageSQLite},
		Toolchain:  "stable",
		Components: []string{"rustfmt", "clippy"},
	}, nil
}

func TestInit_WritesConfig(t *testing.T) {
	out, _ := fakeTarget(t, newFakeHost())
	interactive = func() bool { return true }
	runWizard = wizardAnswers
	outputPath := filepath.Join(t.TempDir(), "hostprep.yaml")

	require.NoError(t, Init(context.Background(), outputPath, false))

	cfg, err := config.LoadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "deploy", cfg.User)
	assert.Equal(t, "Europe/London", cfg.Locale.Timezone)
	assert.False(t, cfg.Postgres.Enabled)
	assert.False(t, cfg.ClickHouse.Enabled)
	assert.True(t, cfg.SQLite.Enabled)

	assert.Contains(t, out.String(), "Configuration saved!")
	assert.Contains(t, out.String(), "sudo hostprep apply -c "+outputPath)
}

func TestInit_NonInteractive(t *testing.T) {
	fakeTarget(t, newFakeHost())
	interactive = func() bool { return false }
	runWizard = func(context.Context, string) (*wizard.Result, error) {
		t.Fatal("wizard must not run without a terminal")
		return nil, nil
	}

	err := Init(context.Background(), filepath.Join(t.TempDir(), "hostprep.yaml"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestInit_KeepsExistingFileWhenDeclined(t *testing.T) {
	fakeTarget(t, newFakeHost())
	interactive = func() bool { return true }
	fileExists = func(string) bool { return true }
	confirmOverwrite = func(string) (bool, error) { return false, nil }
	writeConfig = func(*config.Config, string) error {
		t.Fatal("existing file must not be overwritten")
		return nil
	}

	require.NoError(t, Init(context.Background(), "hostprep.yaml", false))
}

func TestInit_ForceSkipsConfirmation(t *testing.T) {
	fakeTarget(t, newFakeHost())
	interactive = func() bool { return true }
	fileExists = func(string) bool { return true }
	confirmOverwrite = func(string) (bool, error) {
		t.Fatal("--force must not ask")
		return false, nil
	}
	runWizard = wizardAnswers
	written := ""
	writeConfig = func(_ *config.Config, path string) error {
		written = path
		return nil
	}

	require.NoError(t, Init(context.Background(), "hostprep.yaml", true))
	assert.Equal(t, "hostprep.yaml", written)
}

func TestInit_WizardCanceled(t *testing.T) {
	fakeTarget(t, newFakeHost())
	interactive = func() bool { return true }
	fileExists = func(string) bool { return false }
	runWizard = func(context.Context, string) (*wizard.Result, error) {
		return nil, errors.New("user aborted")
	}

	err := Init(context.Background(), "hostprep.yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}
