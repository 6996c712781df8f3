package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/provisioning"
	"github.com/imamik/hostprep/internal/provisioning/stages"
	"github.com/imamik/hostprep/internal/ui/report"
	"github.com/imamik/hostprep/internal/util/prerequisites"
)

// Doctor reports what is provisioned on the target without changing it.
// It returns an error when an enabled stage is not fully in place.
func Doctor(ctx context.Context, opts TargetOptions, jsonOutput bool) error {
	cfg, _, err := prepareConfig(opts)
	if err != nil {
		return err
	}

	observer, flush, err := newObserver(opts.LogFormat, opts.Verbose)
	if err != nil {
		return err
	}
	defer flush()

	exec, release, err := connect(cfg, observer)
	if err != nil {
		return err
	}
	defer release()

	h := host.New(exec)
	pCtx := provisioning.NewContext(ctx, cfg, h, nil, observer)

	acct, err := stages.ResolveAccount(pCtx)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v; per-user checks skipped\n", err)
	}

	rep := stages.Inspect(ctx, cfg, h, acct)

	tools, err := prerequisites.CheckAll(ctx, h)
	if err != nil {
		return err
	}
	for _, t := range tools.Missing {
		rep.Checks = append(rep.Checks, report.CheckStatus{
			Name:   "command " + t.Name,
			Detail: "provided by package " + t.Package,
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		report.Render(stdout, report.NewStyles(stdout), rep)
	}

	if !rep.Healthy() {
		return fmt.Errorf("%s is not fully provisioned; run hostprep apply", rep.Target)
	}
	return nil
}
