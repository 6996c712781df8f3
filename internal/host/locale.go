package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/hostprep/internal/platform/shell"
)

// LocaleAvailable reports whether locale is listed by `locale -a`.
// glibc normalises names (en_US.UTF-8 is listed as en_US.utf8), so the
// comparison is done on normalised forms.
func (h *Host) LocaleAvailable(ctx context.Context, locale string) (bool, error) {
	res, err := h.Run(ctx, shell.Cmd("locale", "-a"))
	if err != nil {
		return false, fmt.Errorf("failed to list locales: %w", err)
	}
	want := NormalizeLocale(locale)
	for _, l := range strings.Split(res.Stdout, "\n") {
		if NormalizeLocale(l) == want {
			return true, nil
		}
	}
	return false, nil
}

// NormalizeLocale lowercases the codeset part and strips dashes from it.
func NormalizeLocale(name string) string {
	name = strings.TrimSpace(name)
	lang, codeset, ok := strings.Cut(name, ".")
	if !ok {
		return name
	}
	codeset, modifier, hasMod := strings.Cut(codeset, "@")
	codeset = strings.ToLower(strings.ReplaceAll(codeset, "-", ""))
	if hasMod {
		return lang + "." + codeset + "@" + modifier
	}
	return lang + "." + codeset
}

// GenerateLocales runs locale-gen.
func (h *Host) GenerateLocales(ctx context.Context) error {
	_, err := h.Run(ctx, shell.Cmd("locale-gen"))
	return err
}

// SetDefaultLocale writes LANG to /etc/default/locale.
func (h *Host) SetDefaultLocale(ctx context.Context, locale string) error {
	_, err := h.Run(ctx, shell.Cmd("update-locale", "LANG="+locale))
	return err
}

// Timezone returns the configured system timezone. It asks timedatectl and
// falls back to /etc/timezone on hosts without a running systemd.
func (h *Host) Timezone(ctx context.Context) (string, error) {
	res, err := h.Run(ctx, shell.Cmd("timedatectl", "show", "--property=Timezone", "--value"))
	if err == nil && res.Output() != "" {
		return res.Output(), nil
	}

	data, readErr := h.ReadFile(ctx, "/etc/timezone")
	if readErr != nil {
		return "", readErr
	}
	return strings.TrimSpace(string(data)), nil
}

// SetTimezone sets the system timezone.
func (h *Host) SetTimezone(ctx context.Context, tz string) error {
	_, err := h.Run(ctx, shell.Cmd("timedatectl", "set-timezone", tz))
	return err
}
