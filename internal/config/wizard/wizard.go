package wizard

import (
	"context"
	"fmt"
	"slices"

	"github.com/imamik/hostprep/internal/config"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	User     string
	Locale   string
	Timezone string

	// Stages lists the enabled optional stages (Stage* constants).
	Stages []string

	Toolchain  string
	Components []string
}

// Enabled reports whether stage was selected.
func (r *Result) Enabled(stage string) bool {
	return slices.Contains(r.Stages, stage)
}

// RunWizard runs the interactive configuration wizard. defaultUser
// pre-fills the user question. The context is used for cancellation
// support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, defaultUser string) (*Result, error) {
	result := &Result{
		User:       defaultUser,
		Locale:     config.DefaultLocale,
		Timezone:   config.DefaultTimezone,
		Stages:     Values(Stages),
		Toolchain:  "stable",
		Components: Values(Components),
	}

	if err := runTargetGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	if err := runLocaleGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("locale: %w", err)
	}

	if err := runStagesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("stages: %w", err)
	}

	if result.Enabled(StageRust) {
		if err := runRustGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("rust: %w", err)
		}
	}

	return result, nil
}
