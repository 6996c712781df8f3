package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/provisioning"
	"github.com/imamik/hostprep/internal/provisioning/stages"
)

// Apply provisions the target host.
//
// This function orchestrates the run:
//  1. Loads the configuration and applies flag overrides
//  2. Connects to the target (local, or SSH when --host is set)
//  3. Runs the stages in order, stopping at the first failure
//  4. Writes the Prometheus textfile when a metrics path is configured
func Apply(ctx context.Context, opts TargetOptions) error {
	cfg, path, err := prepareConfig(opts)
	if err != nil {
		return err
	}

	observer, flush, err := newObserver(opts.LogFormat, opts.Verbose)
	if err != nil {
		return err
	}
	defer flush()

	if path != "" {
		observer.Printf("using configuration %s", path)
	} else {
		observer.Printf("no configuration file found, using defaults")
	}

	exec, release, err := connect(cfg, observer)
	if err != nil {
		return err
	}
	defer release()

	if cfg.SSH.Remote() {
		observer = observer.WithFields(map[string]string{"target": exec.Target()})
	}

	pCtx := provisioning.NewContext(ctx, cfg, host.New(exec), newFetcher(cfg.Download.Timeout), observer)
	if cfg.Metrics.TextfilePath != "" {
		pCtx.Metrics = provisioning.NewMetrics()
	}

	runErr := provisioning.NewPipeline(stages.Default(stdout)...).Run(pCtx)

	if pCtx.Metrics != nil {
		if err := pCtx.Metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			if runErr != nil {
				observer.Printf("%v", err)
				return runErr
			}
			return fmt.Errorf("run succeeded but metrics were not written: %w", err)
		}
	}

	return runErr
}
