package stages

import (
	"context"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/platform/shell"
	"github.com/imamik/hostprep/internal/provisioning"
)

const aptArchives = "/var/cache/apt/archives"

// Cleanup removes unused packages and the downloaded package cache.
// Failures are reported as warnings and never fail the run.
type Cleanup struct{}

// NewCleanup creates the cleanup stage.
func NewCleanup() *Cleanup {
	return &Cleanup{}
}

// Name implements the provisioning.Phase interface.
func (c *Cleanup) Name() string {
	return "cleanup"
}

// Provision implements the provisioning.Phase interface.
func (c *Cleanup) Provision(ctx *provisioning.Context) error {
	if err := ctx.Host.AptAutoremove(ctx); err != nil {
		ctx.Warn("apt-get autoremove", err)
	} else {
		ctx.Applied("unused packages", "removed")
	}

	before := cacheSize(ctx, ctx.Host)
	if err := ctx.Host.AptClean(ctx); err != nil {
		ctx.Warn("apt-get clean", err)
		return nil
	}
	after := cacheSize(ctx, ctx.Host)

	var freed uint64
	if before > after {
		freed = before - after
	}
	ctx.Applied("package cache", "freed "+humanize.Bytes(freed))
	return nil
}

// cacheSize returns the size of the APT archive cache in bytes, or 0 when
// it cannot be determined.
func cacheSize(ctx context.Context, h *host.Host) uint64 {
	res, err := h.Run(ctx, shell.Cmd("du", "-sb", aptArchives))
	if err != nil {
		return 0
	}
	fields := strings.Fields(res.Stdout)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
