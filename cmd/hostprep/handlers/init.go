package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig

	// interactive reports whether stdout is a terminal.
	interactive = isInteractiveTTY

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = func(path string) (bool, error) {
		var ok bool
		err := huh.NewConfirm().
			Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
			Value(&ok).
			Run()
		return ok, err
	}
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string, force bool) error {
	if !interactive() {
		return errors.New("init needs an interactive terminal; copy and edit an existing hostprep.yaml instead")
	}

	if fileExists(outputPath) && !force {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted, existing file kept.")
			return nil
		}
	}

	printWelcome()

	result, err := runWizard(ctx, suggestedUser(os.Getenv))
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizard.BuildConfig(result)

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// suggestedUser pre-fills the user question from the environment.
func suggestedUser(getenv func(string) string) string {
	for _, key := range []string{config.EnvUser, config.EnvSudoUser, "USER"} {
		if v := getenv(key); v != "" && v != "root" {
			return v
		}
	}
	return ""
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "hostprep - Debian development and data host")
	fmt.Fprintln(stdout, "===========================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a configuration with sensible defaults.")
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Host Summary")
	fmt.Fprintln(stdout, "------------")
	fmt.Fprintf(stdout, "  User:     %s\n", cfg.User)
	fmt.Fprintf(stdout, "  Locale:   %s\n", cfg.Locale.Name)
	fmt.Fprintf(stdout, "  Timezone: %s\n", cfg.Locale.Timezone)
	if cfg.Rust.Enabled {
		fmt.Fprintf(stdout, "  Rust:     %s (%s)\n", cfg.Rust.Toolchain, strings.Join(cfg.Rust.Components, ", "))
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Stages")
	fmt.Fprintln(stdout, "------")
	for _, s := range []struct {
		name    string
		enabled bool
	}{
		{"zsh + oh-my-zsh", cfg.Shell.Enabled},
		{"Rust", cfg.Rust.Enabled},
		{"PostgreSQL", cfg.Postgres.Enabled},
		{"ClickHouse", cfg.ClickHouse.Enabled},
		{"SQLite", cfg.SQLite.Enabled},
	} {
		mark := "-"
		if s.enabled {
			mark = "+"
		}
		fmt.Fprintf(stdout, "  %s %s\n", mark, s.name)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintf(stdout, "  1. Review %s if needed\n", outputPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Provision the host:")
	fmt.Fprintf(stdout, "     sudo hostprep apply -c %s\n", outputPath)
	fmt.Fprintln(stdout)
}
