package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Report is the observable end state of a host.
type Report struct {
	Target   string          `json:"target"`
	User     string          `json:"user"`
	Home     string          `json:"home"`
	Shell    string          `json:"shell"`
	Locale   string          `json:"locale"`
	Timezone string          `json:"timezone"`
	Tools    []ToolStatus    `json:"tools"`
	Services []ServiceStatus `json:"services"`
	Checks   []CheckStatus   `json:"checks,omitempty"`
	Actions  []ActionLine    `json:"actions,omitempty"`
	Duration time.Duration   `json:"duration,omitempty"`
}

// ToolStatus describes one installed (or missing) executable.
type ToolStatus struct {
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
	Version   string `json:"version,omitempty"`
}

// ServiceStatus describes one systemd unit.
type ServiceStatus struct {
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Enabled bool   `json:"enabled"`
}

// CheckStatus is a yes/no observation, e.g. "cargo env sourced".
type CheckStatus struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// ActionLine is one thing a run did or skipped.
type ActionLine struct {
	Stage   string `json:"stage"`
	Subject string `json:"subject"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

// Healthy reports whether every tool is installed, every service is
// active and enabled, and every check passed.
func (r *Report) Healthy() bool {
	for _, t := range r.Tools {
		if !t.Installed {
			return false
		}
	}
	for _, s := range r.Services {
		if !s.Active || !s.Enabled {
			return false
		}
	}
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Render writes the fixed-format summary to w.
func Render(w io.Writer, styles Styles, r *Report) {
	var b strings.Builder
	rule := strings.Repeat("─", 48)

	b.WriteString("\n")
	b.WriteString(styles.Title.Render("hostprep summary: " + r.Target))
	b.WriteString("\n" + styles.Dim.Render(rule) + "\n")

	row := func(label, value string) {
		b.WriteString("  " + styles.Label.Render(label) + value + "\n")
	}
	row("User", fmt.Sprintf("%s (%s)", r.User, r.Home))
	row("Login shell", r.Shell)
	row("Locale", r.Locale)
	row("Timezone", r.Timezone)

	if len(r.Tools) > 0 {
		b.WriteString("\n" + styles.Section.Render("  Tools") + "\n")
		for _, t := range r.Tools {
			value := styles.Failure.Render(crossMark) + " not installed"
			if t.Installed {
				value = styles.Success.Render(checkMark) + " " + orUnknown(t.Version)
			}
			row(t.Name, value)
		}
	}

	if len(r.Services) > 0 {
		b.WriteString("\n" + styles.Section.Render("  Services") + "\n")
		for _, s := range r.Services {
			mark := styles.Success.Render(checkMark)
			if !s.Active || !s.Enabled {
				mark = styles.Failure.Render(crossMark)
			}
			row(s.Name, fmt.Sprintf("%s active=%s enabled=%s", mark, yesNo(s.Active), yesNo(s.Enabled)))
		}
	}

	if len(r.Checks) > 0 {
		b.WriteString("\n" + styles.Section.Render("  Checks") + "\n")
		for _, c := range r.Checks {
			mark := styles.Success.Render(checkMark)
			if !c.OK {
				mark = styles.Warning.Render(warnMark)
			}
			row(c.Name, strings.TrimSpace(mark+" "+c.Detail))
		}
	}

	if len(r.Actions) > 0 {
		b.WriteString("\n" + styles.Section.Render("  Actions") + "\n")
		for _, a := range r.Actions {
			mark := styles.Success.Render(checkMark)
			switch a.Outcome {
			case "skipped":
				mark = styles.Dim.Render(skipMark)
			case "warned":
				mark = styles.Warning.Render(warnMark)
			}
			line := fmt.Sprintf("    %s %-10s %s", mark, a.Stage, a.Subject)
			if a.Detail != "" {
				line += styles.Dim.Render(" - " + a.Detail)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString(styles.Dim.Render(rule) + "\n")
	if r.Duration > 0 {
		b.WriteString(fmt.Sprintf("  Completed in %v\n", r.Duration.Round(time.Millisecond)))
	}

	_, _ = io.WriteString(w, b.String())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orUnknown(s string) string {
	if s == "" {
		return "version unknown"
	}
	return s
}
