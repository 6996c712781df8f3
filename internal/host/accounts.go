package host

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/hostprep/internal/platform/shell"
)

// ErrUnknownUser is returned when the account database has no such user.
var ErrUnknownUser = errors.New("unknown user")

// Account is an entry of the system account database.
type Account struct {
	Name  string `json:"name"`
	UID   int    `json:"uid"`
	GID   int    `json:"gid"`
	Home  string `json:"home"`
	Shell string `json:"shell"`
}

// Path joins rel onto the account's home directory.
func (a *Account) Path(rel string) string {
	return strings.TrimSuffix(a.Home, "/") + "/" + strings.TrimPrefix(rel, "/")
}

// LookupUser resolves name through getent, so NSS sources such as LDAP are
// honoured the same way login would.
func (h *Host) LookupUser(ctx context.Context, name string) (*Account, error) {
	res, err := h.Run(ctx, shell.Cmd("getent", "passwd", name))
	if err != nil {
		// getent exits 2 when the key is not found.
		if code, ok := shell.ExitCode(err); ok && code == 2 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUser, name)
		}
		return nil, fmt.Errorf("failed to look up %s: %w", name, err)
	}
	return ParsePasswd(res.Output())
}

// ParsePasswd parses a single passwd(5) line.
func ParsePasswd(line string) (*Account, error) {
	fields := strings.Split(strings.TrimSpace(line), ":")
	if len(fields) != 7 {
		return nil, fmt.Errorf("malformed passwd entry %q", line)
	}

	uid, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("malformed uid in passwd entry %q", line)
	}
	gid, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("malformed gid in passwd entry %q", line)
	}
	if fields[5] == "" {
		return nil, fmt.Errorf("passwd entry for %s has no home directory", fields[0])
	}

	return &Account{
		Name:  fields[0],
		UID:   uid,
		GID:   gid,
		Home:  fields[5],
		Shell: fields[6],
	}, nil
}

// EffectiveUID returns the uid commands run with on the target.
func (h *Host) EffectiveUID(ctx context.Context) (int, error) {
	res, err := h.Run(ctx, shell.Cmd("id", "-u"))
	if err != nil {
		return -1, fmt.Errorf("failed to determine effective uid: %w", err)
	}
	uid, err := strconv.Atoi(res.Output())
	if err != nil {
		return -1, fmt.Errorf("unexpected output from id -u: %q", res.Output())
	}
	return uid, nil
}

// ChangeShell sets the login shell of user.
func (h *Host) ChangeShell(ctx context.Context, user, shellPath string) error {
	_, err := h.Run(ctx, shell.Cmd("chsh", "-s", shellPath, user))
	return err
}
