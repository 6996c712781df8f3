package stages

import (
	"context"
	"strings"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/platform/shell"
	"github.com/imamik/hostprep/internal/ui/report"
)

// Inspect observes the state hostprep manages without changing anything.
// acct may be nil when the target user could not be resolved; per-user
// items are then left out. Probe failures show up as missing tools or
// failed checks rather than errors.
func Inspect(ctx context.Context, cfg *config.Config, h *host.Host, acct *host.Account) *report.Report {
	rep := &report.Report{Target: h.Name()}

	if acct != nil {
		// The login shell may have changed during the run.
		if fresh, err := h.LookupUser(ctx, acct.Name); err == nil {
			acct = fresh
		}
		rep.User = acct.Name
		rep.Home = acct.Home
		rep.Shell = acct.Shell
	}

	rep.Locale = "unset"
	if data, err := h.ReadFile(ctx, defaultLocaleFile); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if v, ok := strings.CutPrefix(strings.TrimSpace(line), "LANG="); ok {
				rep.Locale = strings.Trim(v, `"'`)
			}
		}
	}
	if tz, err := h.Timezone(ctx); err == nil && tz != "" {
		rep.Timezone = tz
	} else {
		rep.Timezone = "unknown"
	}

	if cfg.Shell.Enabled {
		rep.Tools = append(rep.Tools, inspectTool(ctx, h, cfg.Shell.Binary))
		if acct != nil {
			dir := acct.Path(ohMyZshDir)
			ok, _ := h.Exists(ctx, dir)
			rep.Checks = append(rep.Checks, report.CheckStatus{Name: "oh-my-zsh", OK: ok, Detail: dir})
		}
	}

	if cfg.Rust.Enabled && acct != nil {
		rep.Tools = append(rep.Tools, inspectRust(ctx, h, acct))
		rc := acct.Path(cfg.Shell.RCFile)
		ok, _ := h.UserFileHasLine(ctx, acct, rc, cfg.Rust.EnvLine)
		rep.Checks = append(rep.Checks, report.CheckStatus{Name: "cargo env", OK: ok, Detail: rc})
	}

	if cfg.Postgres.Enabled {
		rep.Tools = append(rep.Tools, inspectTool(ctx, h, cfg.Postgres.Client))
		rep.Services = append(rep.Services, inspectService(ctx, h, cfg.Postgres.Service))
	}

	if cfg.ClickHouse.Enabled {
		rep.Tools = append(rep.Tools, inspectTool(ctx, h, cfg.ClickHouse.Client))
		rep.Services = append(rep.Services, inspectService(ctx, h, cfg.ClickHouse.Service))
		ok, _ := h.FileContainsLine(ctx, cfg.ClickHouse.SourceFile, cfg.ClickHouse.SourceLine())
		rep.Checks = append(rep.Checks, report.CheckStatus{Name: "clickhouse repo", OK: ok, Detail: cfg.ClickHouse.SourceFile})
	}

	if cfg.SQLite.Enabled {
		rep.Tools = append(rep.Tools, inspectTool(ctx, h, cfg.SQLite.Client))
	}

	data, _ := h.ReadFile(ctx, cfg.Locale.GenFile)
	active := host.CountActive(string(data), cfg.Locale.Entry())
	rep.Checks = append(rep.Checks, report.CheckStatus{
		Name:   "locale.gen",
		OK:     active == 1,
		Detail: cfg.Locale.Entry(),
	})

	return rep
}

func inspectTool(ctx context.Context, h *host.Host, name string) report.ToolStatus {
	path, err := h.CommandPath(ctx, name)
	if err != nil || path == "" {
		return report.ToolStatus{Name: name}
	}
	return report.ToolStatus{
		Name:      name,
		Installed: true,
		Version:   h.Version(ctx, shell.Cmd(name, "--version")),
	}
}

func inspectRust(ctx context.Context, h *host.Host, acct *host.Account) report.ToolStatus {
	rustc := acct.Path(cargoBin + "/rustc")
	if ok, err := h.Exists(ctx, rustc); err == nil && ok {
		return report.ToolStatus{
			Name:      "rustc",
			Installed: true,
			Version:   h.Version(ctx, shell.Cmd(rustc, "--version").AsUser(acct.Name, acct.Home)),
		}
	}
	if ok, err := h.UserHasCommand(ctx, acct, "rustc"); err == nil && ok {
		return report.ToolStatus{
			Name:      "rustc",
			Installed: true,
			Version:   h.Version(ctx, shell.Cmd("sh", "-lc", "rustc --version").AsUser(acct.Name, acct.Home)),
		}
	}
	return report.ToolStatus{Name: "rustc"}
}

func inspectService(ctx context.Context, h *host.Host, unit string) report.ServiceStatus {
	state, err := h.ServiceState(ctx, unit)
	if err != nil {
		return report.ServiceStatus{Name: unit}
	}
	return report.ServiceStatus{Name: unit, Active: state.Active, Enabled: state.Enabled}
}
