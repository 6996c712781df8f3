package stages

import (
	"fmt"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/provisioning"
)

const ohMyZshDir = ".oh-my-zsh"

// Shell installs zsh and oh-my-zsh for the target user and makes zsh the
// login shell.
type Shell struct{}

// NewShell creates the shell environment stage.
func NewShell() *Shell {
	return &Shell{}
}

// Name implements the provisioning.Phase interface.
func (s *Shell) Name() string {
	return "shell"
}

// Enabled implements the provisioning.Toggle interface.
func (s *Shell) Enabled(cfg *config.Config) bool {
	return cfg.Shell.Enabled
}

// Provision implements the provisioning.Phase interface.
func (s *Shell) Provision(ctx *provisioning.Context) error {
	acct, err := targetUser(ctx)
	if err != nil {
		return err
	}
	cfg := ctx.Config.Shell

	if err := ensureClient(ctx, cfg.Binary, []string{cfg.Package}); err != nil {
		return err
	}

	if err := s.ensureOhMyZsh(ctx, cfg); err != nil {
		return err
	}

	if !cfg.ChangeTo {
		return nil
	}

	zsh, err := ctx.Host.CommandPath(ctx, cfg.Binary)
	if err != nil {
		return err
	}
	if zsh == "" {
		return fmt.Errorf("%s does not resolve after installing %s", cfg.Binary, cfg.Package)
	}
	same, err := samePath(ctx, acct.Shell, zsh)
	if err != nil {
		return err
	}
	if same {
		ctx.Skipped("login shell", "already "+acct.Shell)
		return nil
	}

	if err := ctx.Host.ChangeShell(ctx, acct.Name, zsh); err != nil {
		return fmt.Errorf("failed to change login shell of %s: %w", acct.Name, err)
	}
	ctx.Applied("login shell", fmt.Sprintf("%s -> %s", acct.Shell, zsh))
	acct.Shell = zsh
	return nil
}

func (s *Shell) ensureOhMyZsh(ctx *provisioning.Context, cfg config.ShellConfig) error {
	acct, err := targetUser(ctx)
	if err != nil {
		return err
	}

	dir := acct.Path(ohMyZshDir)
	present, err := ctx.Host.Exists(ctx, dir)
	if err != nil {
		return err
	}
	if present {
		ctx.Skipped("oh-my-zsh", "already installed in "+dir)
		return nil
	}

	script, err := fetchInstaller(ctx, "oh-my-zsh installer", cfg.OhMyZsh)
	if err != nil {
		return err
	}

	// RUNZSH=no keeps the installer from exec'ing zsh at the end and
	// CHSH=no leaves the login shell to this stage.
	err = runInstaller(ctx, acct, "oh-my-zsh-install.sh", script,
		[]string{"RUNZSH=no", "CHSH=no"}, "--unattended")
	if err != nil {
		return err
	}
	ctx.Applied("oh-my-zsh", "installed in "+dir)
	return nil
}

// samePath reports whether a and b name the same file once links are
// resolved, so /bin/zsh and /usr/bin/zsh match on merged-/usr systems.
func samePath(ctx *provisioning.Context, a, b string) (bool, error) {
	if a == b {
		return true, nil
	}
	if a == "" || b == "" {
		return false, nil
	}
	ra, err := ctx.Host.ResolvePath(ctx, a)
	if err != nil {
		return false, err
	}
	rb, err := ctx.Host.ResolvePath(ctx, b)
	if err != nil {
		return false, err
	}
	return ra == rb, nil
}
