// Package prerequisites checks that the target host ships the tools
// hostprep drives.
package prerequisites

import (
	"context"
	"fmt"
	"strings"
)

// Tool represents a host tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// Package is the Debian package that ships the tool.
	Package string
}

// Resolver resolves a command name to its path on the target, returning ""
// when it is not found. *host.Host implements it.
type Resolver interface {
	CommandPath(ctx context.Context, name string) (string, error)
}

// DefaultTools returns the tools every run needs.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "apt-get",
			Required:    true,
			Description: "Required for installing packages",
			Package:     "apt",
		},
		{
			Name:        "systemctl",
			Required:    true,
			Description: "Required for starting and enabling database services",
			Package:     "systemd",
		},
		{
			Name:        "runuser",
			Required:    true,
			Description: "Required for running installers as the target user",
			Package:     "util-linux",
		},
		{
			Name:        "getent",
			Required:    true,
			Description: "Required for resolving the target user's account",
			Package:     "libc-bin",
		},
	}
}

// OptionalTools returns tools that are useful but not required before the
// system stage has run (locale-gen arrives with the locales package).
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "locale-gen",
			Required:    false,
			Description: "Generates the configured locale",
			Package:     "locales",
		},
		{
			Name:        "timedatectl",
			Required:    false,
			Description: "Sets the system timezone",
			Package:     "systemd",
		},
		{
			Name:        "chsh",
			Required:    false,
			Description: "Changes the target user's login shell",
			Package:     "passwd",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (package %s)", tool.Name, tool.Package))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available on the target.
// An error is only returned when the lookup itself could not be run.
func Check(ctx context.Context, r Resolver, tools []Tool) (*CheckResults, error) {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := r.CommandPath(ctx, tool.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s: %w", tool.Name, err)
		}
		if path != "" {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results, nil
}

// CheckDefault checks the required tools.
func CheckDefault(ctx context.Context, r Resolver) (*CheckResults, error) {
	return Check(ctx, r, DefaultTools())
}

// CheckAll checks all tools (default + optional).
func CheckAll(ctx context.Context, r Resolver) (*CheckResults, error) {
	defaults := DefaultTools()
	optional := OptionalTools()
	all := make([]Tool, 0, len(defaults)+len(optional))
	all = append(all, defaults...)
	all = append(all, optional...)
	return Check(ctx, r, all)
}
