package stages

import (
	"context"
	"fmt"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/download"
	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/platform/shell"
	"github.com/imamik/hostprep/internal/provisioning"
)

// fetchInstaller downloads an installer script and checks it before it is
// ever written to the target. A failed content check or a checksum
// mismatch is an IntegrityError. A checksum file that cannot be fetched or
// parsed only produces a warning.
func fetchInstaller(ctx *provisioning.Context, subject string, inst config.InstallerConfig) ([]byte, error) {
	ctx.Step("downloading %s from %s", subject, inst.URL)
	script, err := ctx.Fetcher.Fetch(ctx, inst.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", subject, err)
	}

	if err := download.SanityCheck(inst.URL, script, inst.Markers); err != nil {
		return nil, &provisioning.IntegrityError{Subject: subject, Err: err}
	}

	if inst.ChecksumURL == "" {
		return script, nil
	}

	expected, err := fetchChecksum(ctx, inst.ChecksumURL)
	if err != nil {
		ctx.Warn(subject+" checksum", err)
		return script, nil
	}
	if err := download.VerifyChecksum(inst.URL, script, expected); err != nil {
		return nil, &provisioning.IntegrityError{Subject: subject, Err: err}
	}
	ctx.Observer.Printf("%s checksum verified", subject)
	return script, nil
}

func fetchChecksum(ctx *provisioning.Context, url string) (string, error) {
	data, err := ctx.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return download.ParseChecksum(data)
}

// runInstaller writes script to a fresh temporary file on the target and
// runs it with sh as acct. The file is created by root and only made
// readable once the checked content is in place. It is removed afterwards.
func runInstaller(ctx *provisioning.Context, acct *host.Account, name string, script []byte, env []string, args ...string) error {
	path, err := ctx.Host.CreateTemp(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		rmErr := ctx.Host.Remove(context.WithoutCancel(ctx), path)
		if rmErr != nil {
			ctx.Observer.Printf("failed to remove %s: %v", path, rmErr)
		}
	}()

	if err := ctx.Host.WriteFile(ctx, path, script, 0o600); err != nil {
		return err
	}
	if err := ctx.Host.Chmod(ctx, path, 0o644); err != nil {
		return fmt.Errorf("failed to make %s readable: %w", path, err)
	}

	cmd := shell.Cmd("sh", append([]string{path}, args...)...).
		WithEnv(env...).
		AsUser(acct.Name, acct.Home)

	ctx.Observer.Printf("running %s", cmd.Display())
	if _, err := ctx.Host.Run(ctx, cmd); err != nil {
		return fmt.Errorf("installer %s failed: %w", name, err)
	}
	return nil
}
