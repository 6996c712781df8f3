package stages

import (
	"fmt"
	"io"
	"strings"

	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/provisioning"
)

// Default returns the stages of a full run in order. The summary is
// rendered to out.
func Default(out io.Writer) []provisioning.Phase {
	return []provisioning.Phase{
		NewPreflight(),
		NewSystem(),
		NewLocale(),
		NewShell(),
		NewRust(),
		NewPostgres(),
		NewClickHouse(),
		NewSQLite(),
		NewCleanup(),
		NewSummary(out),
	}
}

func targetUser(ctx *provisioning.Context) (*host.Account, error) {
	if acct := ctx.User(); acct != nil {
		return acct, nil
	}
	return nil, &provisioning.ConfigurationError{Msg: "target user is not resolved; preflight has not run"}
}

// ensureClient installs packages unless client already resolves.
func ensureClient(ctx *provisioning.Context, client string, packages []string) error {
	present, err := ctx.Host.HasCommand(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", client, err)
	}
	if present {
		ctx.Skipped(client, "already installed")
		return nil
	}

	ctx.Step("installing %s", strings.Join(packages, " "))
	if err := ctx.Host.AptInstall(ctx, packages...); err != nil {
		return fmt.Errorf("failed to install %s: %w", strings.Join(packages, " "), err)
	}
	ctx.Applied(client, "installed "+strings.Join(packages, " "))
	return nil
}

// ensureService makes unit active and enabled, checking each state first.
func ensureService(ctx *provisioning.Context, unit string) error {
	state, err := ctx.Host.ServiceState(ctx, unit)
	if err != nil {
		return err
	}
	if state.Ready() {
		ctx.Skipped(unit, "running and enabled")
		return nil
	}

	if state.Active {
		ctx.Skipped(unit, "already running")
	} else {
		if err := ctx.Host.StartService(ctx, unit); err != nil {
			return fmt.Errorf("failed to start %s: %w", unit, err)
		}
		ctx.Applied(unit, "started")
	}

	if state.Enabled {
		ctx.Skipped(unit, "already enabled")
	} else {
		if err := ctx.Host.EnableService(ctx, unit); err != nil {
			return fmt.Errorf("failed to enable %s: %w", unit, err)
		}
		ctx.Applied(unit, "enabled")
	}
	return nil
}
