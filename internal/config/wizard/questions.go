package wizard

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/hostprep/internal/config"
)

// timezoneRegex accepts tz database names such as Europe/Berlin,
// America/Argentina/Buenos_Aires and UTC.
var timezoneRegex = regexp.MustCompile(`^(UTC|[A-Z][A-Za-z_+-]*(/[A-Za-z0-9_+-]+)+)$`)

// runTargetGroup prompts for the account that receives per-user tooling.
func runTargetGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target User").
				Description("Regular account that gets zsh, oh-my-zsh and rustup").
				Placeholder("deploy").
				Value(&result.User).
				Validate(validateUser),
		).Title("Target"),
	).RunWithContext(ctx)
}

// runLocaleGroup prompts for locale and timezone.
func runLocaleGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Locale").
				Description("Generated and set as the system default").
				Options(ToOptions(Locales)...).
				Value(&result.Locale),
			huh.NewInput().
				Title("Timezone").
				Description("tz database name").
				Placeholder("Europe/Berlin").
				Value(&result.Timezone).
				Validate(validateTimezone),
		).Title("Locale"),
	).RunWithContext(ctx)
}

// runStagesGroup prompts for the optional stages.
func runStagesGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Install").
				Description("System update, locale and cleanup always run").
				Options(ToOptions(Stages)...).
				Value(&result.Stages),
		).Title("Stages"),
	).RunWithContext(ctx)
}

// runRustGroup prompts for the toolchain and components.
func runRustGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Toolchain").
				Options(ToOptions(Toolchains)...).
				Value(&result.Toolchain),
			huh.NewMultiSelect[string]().
				Title("Components").
				Options(ToOptions(Components)...).
				Value(&result.Components),
		).Title("Rust"),
	).RunWithContext(ctx)
}

func validateUser(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errUserRequired
	}
	if s == "root" {
		return errUserRoot
	}
	return config.ValidateUsername(s)
}

func validateTimezone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errTimezoneRequired
	}
	if !timezoneRegex.MatchString(s) {
		return errTimezoneInvalid
	}
	return nil
}
