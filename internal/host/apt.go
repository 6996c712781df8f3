package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/hostprep/internal/platform/shell"
)

// aptGetOptions keep apt-get from ever prompting: keep existing config files
// on upgrade and assume yes for every question.
var aptGetOptions = []string{
	"--option=Dpkg::Options::=--force-confold",
	"--option=Dpkg::Options::=--force-confdef",
	"--assume-yes",
	"--quiet",
}

// aptGetEnv suppresses debconf dialogs.
var aptGetEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// AptGet builds a non-interactive apt-get invocation.
func AptGet(args ...string) shell.Command {
	all := append(append([]string(nil), aptGetOptions...), args...)
	return shell.Cmd("apt-get", all...).WithEnv(aptGetEnv...)
}

// AptUpdate refreshes the package index.
func (h *Host) AptUpdate(ctx context.Context) error {
	_, err := h.Run(ctx, AptGet("update"))
	return err
}

// AptUpgrade upgrades all installed packages.
func (h *Host) AptUpgrade(ctx context.Context) error {
	_, err := h.Run(ctx, AptGet("upgrade"))
	return err
}

// AptInstall installs packages.
func (h *Host) AptInstall(ctx context.Context, packages ...string) error {
	_, err := h.Run(ctx, AptGet(append([]string{"install"}, packages...)...))
	return err
}

// AptAutoremove removes packages no longer required by anything.
func (h *Host) AptAutoremove(ctx context.Context) error {
	_, err := h.Run(ctx, AptGet("autoremove"))
	return err
}

// AptClean clears the local package cache.
func (h *Host) AptClean(ctx context.Context) error {
	_, err := h.Run(ctx, AptGet("clean"))
	return err
}

// PackageInstalled reports whether dpkg considers pkg installed.
func (h *Host) PackageInstalled(ctx context.Context, pkg string) (bool, error) {
	res, err := h.Run(ctx, shell.Cmd("dpkg-query", "--show", "--showformat=${Status}", pkg))
	if err != nil {
		// dpkg-query exits 1 for packages it has never seen.
		if shell.IsExitError(err) {
			return false, nil
		}
		return false, err
	}
	return strings.HasSuffix(res.Output(), "install ok installed"), nil
}

// MissingPackages filters packages down to those not yet installed.
func (h *Host) MissingPackages(ctx context.Context, packages ...string) ([]string, error) {
	var missing []string
	for _, pkg := range packages {
		ok, err := h.PackageInstalled(ctx, pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to query package %s: %w", pkg, err)
		}
		if !ok {
			missing = append(missing, pkg)
		}
	}
	return missing, nil
}
