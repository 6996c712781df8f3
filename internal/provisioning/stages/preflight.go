package stages

import (
	"errors"
	"fmt"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/provisioning"
	"github.com/imamik/hostprep/internal/util/prerequisites"
)

// Preflight verifies root privileges and resolves the target user. It
// only probes the host.
type Preflight struct{}

// NewPreflight creates the preflight stage.
func NewPreflight() *Preflight {
	return &Preflight{}
}

// Name implements the provisioning.Phase interface.
func (p *Preflight) Name() string {
	return "preflight"
}

// Provision implements the provisioning.Phase interface.
func (p *Preflight) Provision(ctx *provisioning.Context) error {
	uid, err := ctx.Host.EffectiveUID(ctx)
	if err != nil {
		return err
	}
	if uid != 0 {
		return &provisioning.PermissionError{UID: uid}
	}

	results, err := prerequisites.CheckDefault(ctx, ctx.Host)
	if err != nil {
		return err
	}
	if err := results.Error(); err != nil {
		return &provisioning.ConfigurationError{Msg: "target host is not a supported Debian system", Err: err}
	}

	acct, err := ResolveAccount(ctx)
	if err != nil {
		return err
	}
	ctx.State.User = acct
	ctx.Step("target user %s (home %s)", acct.Name, acct.Home)
	return nil
}

// ResolveAccount finds the target account from the --user flag, the
// environment and the config file. It does not require root.
func ResolveAccount(ctx *provisioning.Context) (*host.Account, error) {
	name := ctx.Config.ResolveUser(ctx.Getenv)
	switch name {
	case "":
		return nil, &provisioning.ConfigurationError{
			Msg: fmt.Sprintf("no target user: pass --user, set %s or run through sudo", config.EnvUser),
		}
	case "root":
		return nil, &provisioning.ConfigurationError{Msg: "target user must be a regular account, not root"}
	}
	if err := config.ValidateUsername(name); err != nil {
		return nil, &provisioning.ConfigurationError{Msg: "invalid target user", Err: err}
	}

	acct, err := ctx.Host.LookupUser(ctx, name)
	if errors.Is(err, host.ErrUnknownUser) {
		return nil, &provisioning.ConfigurationError{Msg: "cannot resolve target user", Err: err}
	}
	if err != nil {
		return nil, err
	}
	if acct.Home == "" || acct.Home == "/" {
		return nil, &provisioning.ConfigurationError{Msg: fmt.Sprintf("account %s has no usable home directory", name)}
	}
	return acct, nil
}
