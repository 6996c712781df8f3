package stages

import (
	"fmt"
	"strings"

	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/provisioning"
)

const defaultLocaleFile = "/etc/default/locale"

// Locale enables and generates the configured locale, makes it the
// system default and sets the timezone.
type Locale struct{}

// NewLocale creates the locale and timezone stage.
func NewLocale() *Locale {
	return &Locale{}
}

// Name implements the provisioning.Phase interface.
func (l *Locale) Name() string {
	return "locale"
}

// Provision implements the provisioning.Phase interface.
func (l *Locale) Provision(ctx *provisioning.Context) error {
	if err := l.ensureLocale(ctx); err != nil {
		return err
	}
	if err := l.ensureDefault(ctx); err != nil {
		return err
	}
	return l.ensureTimezone(ctx)
}

func (l *Locale) ensureLocale(ctx *provisioning.Context) error {
	cfg := ctx.Config.Locale
	entry := cfg.Entry()

	data, err := ctx.Host.ReadFile(ctx, cfg.GenFile)
	if err != nil {
		return err
	}

	updated, changed := host.UncommentEntry(string(data), entry)
	if changed {
		if err := ctx.Host.WriteFile(ctx, cfg.GenFile, []byte(updated), 0o644); err != nil {
			return err
		}
		ctx.Applied(cfg.GenFile, "enabled "+entry)
	}

	available, err := ctx.Host.LocaleAvailable(ctx, cfg.Name)
	if err != nil {
		return err
	}
	if !changed && host.CountActive(updated, entry) == 0 {
		if available {
			ctx.Skipped(cfg.Name, "available, not listed in "+cfg.GenFile)
			return nil
		}
		return &provisioning.ConfigurationError{
			Msg: fmt.Sprintf("locale %s is not supported: %s has no %q entry", cfg.Name, cfg.GenFile, entry),
		}
	}
	if !changed && available {
		ctx.Skipped(cfg.Name, "already generated")
		return nil
	}

	ctx.Step("generating %s", cfg.Name)
	if err := ctx.Host.GenerateLocales(ctx); err != nil {
		return fmt.Errorf("locale-gen failed: %w", err)
	}
	ctx.Applied(cfg.Name, "generated")
	return nil
}

func (l *Locale) ensureDefault(ctx *provisioning.Context) error {
	name := ctx.Config.Locale.Name

	current, err := defaultLocale(ctx)
	if err != nil {
		return err
	}
	if current == name {
		ctx.Skipped("LANG", "already "+name)
		return nil
	}

	if err := ctx.Host.SetDefaultLocale(ctx, name); err != nil {
		return fmt.Errorf("update-locale failed: %w", err)
	}
	ctx.Applied("LANG", "set to "+name)
	return nil
}

func (l *Locale) ensureTimezone(ctx *provisioning.Context) error {
	want := ctx.Config.Locale.Timezone

	current, err := ctx.Host.Timezone(ctx)
	if err != nil {
		return fmt.Errorf("failed to read timezone: %w", err)
	}
	if sameZone(current, want) {
		ctx.Skipped("timezone", "already "+current)
		return nil
	}

	if err := ctx.Host.SetTimezone(ctx, want); err != nil {
		return fmt.Errorf("failed to set timezone: %w", err)
	}
	ctx.Applied("timezone", fmt.Sprintf("changed from %s to %s", orNone(current), want))
	return nil
}

// defaultLocale returns LANG from /etc/default/locale.
func defaultLocale(ctx *provisioning.Context) (string, error) {
	data, err := ctx.Host.ReadFile(ctx, defaultLocaleFile)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "LANG="); ok {
			return strings.Trim(v, `"'`), nil
		}
	}
	return "", nil
}

// sameZone treats the UTC aliases as one zone.
func sameZone(a, b string) bool {
	canon := func(z string) string {
		switch z {
		case "Etc/UTC", "Etc/Universal", "Etc/Zulu", "Universal", "Zulu":
			return "UTC"
		}
		return z
	}
	return canon(a) == canon(b)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
