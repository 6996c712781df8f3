package stages

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/platform/shell"
	"github.com/imamik/hostprep/internal/provisioning"
)

const cargoBin = ".cargo/bin"

// Rust installs or updates the Rust toolchain through rustup for the target
// user, adds the configured components and sources cargo's environment
// from the user's rc file.
type Rust struct {
	rustupBin string
}

// NewRust creates the Rust toolchain stage.
func NewRust() *Rust {
	return &Rust{}
}

// Name implements the provisioning.Phase interface.
func (r *Rust) Name() string {
	return "rust"
}

// Enabled implements the provisioning.Toggle interface.
func (r *Rust) Enabled(cfg *config.Config) bool {
	return cfg.Rust.Enabled
}

// Provision implements the provisioning.Phase interface.
func (r *Rust) Provision(ctx *provisioning.Context) error {
	acct, err := targetUser(ctx)
	if err != nil {
		return err
	}
	cfg := ctx.Config.Rust

	installed, err := rustResolvable(ctx, acct, "rustc")
	if err != nil {
		return err
	}

	r.rustupBin = acct.Path(cargoBin + "/rustup")
	if !installed {
		if err := r.install(ctx, acct, cfg); err != nil {
			return err
		}
	} else {
		managed, err := rustResolvable(ctx, acct, "rustup")
		if err != nil {
			return err
		}
		if !managed {
			ctx.Warn("rust toolchain", errors.New("rustc is installed without rustup, leaving it alone"))
			return r.ensureEnvLine(ctx, acct, cfg)
		}
		inHome, err := ctx.Host.Exists(ctx, r.rustupBin)
		if err != nil {
			return err
		}
		if !inHome {
			r.rustupBin = "rustup"
		}

		ctx.Step("updating rust toolchain")
		if _, err := ctx.Host.Run(ctx, r.rustup(acct, "update")); err != nil {
			return fmt.Errorf("rustup update failed: %w", err)
		}
		ctx.Applied("rust toolchain", "updated")
	}

	if err := r.ensureComponents(ctx, acct, cfg.Components); err != nil {
		return err
	}
	return r.ensureEnvLine(ctx, acct, cfg)
}

func (r *Rust) install(ctx *provisioning.Context, acct *host.Account, cfg config.RustConfig) error {
	script, err := fetchInstaller(ctx, "rustup installer", cfg.Installer)
	if err != nil {
		return err
	}

	err = runInstaller(ctx, acct, "rustup-init.sh", script, nil,
		"-y", "--no-modify-path", "--profile", "default", "--default-toolchain", cfg.Toolchain)
	if err != nil {
		return err
	}
	ctx.Applied("rust toolchain", "installed "+cfg.Toolchain)
	return nil
}

func (r *Rust) ensureComponents(ctx *provisioning.Context, acct *host.Account, components []string) error {
	if len(components) == 0 {
		return nil
	}

	res, err := ctx.Host.Run(ctx, r.rustup(acct, "component", "list", "--installed"))
	if err != nil {
		return fmt.Errorf("failed to list rust components: %w", err)
	}
	have := strings.Fields(res.Stdout)

	var missing []string
	for _, c := range components {
		if !hasComponent(have, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		ctx.Skipped("rust components", "already installed")
		return nil
	}

	args := append([]string{"component", "add"}, missing...)
	if _, err := ctx.Host.Run(ctx, r.rustup(acct, args...)); err != nil {
		return fmt.Errorf("failed to add rust components: %w", err)
	}
	ctx.Applied("rust components", "added "+strings.Join(missing, " "))
	return nil
}

func (r *Rust) ensureEnvLine(ctx *provisioning.Context, acct *host.Account, cfg config.RustConfig) error {
	rc := acct.Path(ctx.Config.Shell.RCFile)
	changed, err := ctx.Host.EnsureUserLine(ctx, acct, rc, cfg.EnvLine)
	if err != nil {
		return err
	}
	if changed {
		ctx.Applied(rc, "sources cargo env")
	} else {
		ctx.Skipped(rc, "already sources cargo env")
	}
	return nil
}

// rustResolvable reports whether name is in the user's cargo bin directory
// or on their login PATH.
func rustResolvable(ctx *provisioning.Context, acct *host.Account, name string) (bool, error) {
	ok, err := ctx.Host.Exists(ctx, acct.Path(cargoBin+"/"+name))
	if err != nil || ok {
		return ok, err
	}
	return ctx.Host.UserHasCommand(ctx, acct, name)
}

func (r *Rust) rustup(acct *host.Account, args ...string) shell.Command {
	return shell.Cmd(r.rustupBin, args...).AsUser(acct.Name, acct.Home)
}

// targetTriple matches the suffix rustup appends to target-specific
// components (x86_64-unknown-linux-gnu, aarch64-apple-darwin).
var targetTriple = regexp.MustCompile(`^(x86_64|i[3-6]86|aarch64|arm[a-z0-9]*|thumb[a-z0-9]*|riscv[0-9]+[a-z]*|powerpc[a-z0-9]*|s390x|loongarch64|mips[a-z0-9]*|sparc[a-z0-9]*|wasm32)-[a-z0-9_.]+(-[a-z0-9_.]+){1,2}$`)

// hasComponent matches rustup's installed list, where most entries carry
// a target triple suffix (rustfmt-x86_64-unknown-linux-gnu) and some do
// not (rust-src).
func hasComponent(installed []string, name string) bool {
	for _, c := range installed {
		if c == name {
			return true
		}
		suffix, ok := strings.CutPrefix(c, name+"-")
		if ok && targetTriple.MatchString(suffix) {
			return true
		}
	}
	return false
}
