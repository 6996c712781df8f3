package wizard

import "github.com/charmbracelet/huh"

// Option is a selectable value with a human description.
type Option struct {
	Value       string
	Label       string
	Description string
}

// Stage keys used in Result.Stages.
const (
	StageShell      = "shell"
	StageRust       = "rust"
	StagePostgres   = "postgres"
	StageClickHouse = "clickhouse"
	StageSQLite     = "sqlite"
)

// Locales lists commonly used UTF-8 locales.
var Locales = []Option{
	{Value: "en_US.UTF-8", Label: "en_US.UTF-8", Description: "English (United States)"},
	{Value: "en_GB.UTF-8", Label: "en_GB.UTF-8", Description: "English (United Kingdom)"},
	{Value: "de_DE.UTF-8", Label: "de_DE.UTF-8", Description: "German (Germany)"},
	{Value: "fr_FR.UTF-8", Label: "fr_FR.UTF-8", Description: "French (France)"},
	{Value: "es_ES.UTF-8", Label: "es_ES.UTF-8", Description: "Spanish (Spain)"},
	{Value: "nl_NL.UTF-8", Label: "nl_NL.UTF-8", Description: "Dutch (Netherlands)"},
	{Value: "C.UTF-8", Label: "C.UTF-8", Description: "POSIX with UTF-8"},
}

// Toolchains lists rustup default toolchains.
var Toolchains = []Option{
	{Value: "stable", Label: "stable", Description: "Latest stable release (recommended)"},
	{Value: "beta", Label: "beta", Description: "Next stable release"},
	{Value: "nightly", Label: "nightly", Description: "Nightly builds with unstable features"},
}

// Stages lists the optional provisioning stages.
var Stages = []Option{
	{Value: StageShell, Label: "zsh + oh-my-zsh", Description: "Login shell for the target user"},
	{Value: StageRust, Label: "Rust", Description: "rustup toolchain for the target user"},
	{Value: StagePostgres, Label: "PostgreSQL", Description: "Relational database server"},
	{Value: StageClickHouse, Label: "ClickHouse", Description: "Columnar database from the vendor repository"},
	{Value: StageSQLite, Label: "SQLite", Description: "sqlite3 shell and headers"},
}

// Components lists the rustup components offered by default.
var Components = []Option{
	{Value: "rustfmt", Label: "rustfmt", Description: "Formatter"},
	{Value: "clippy", Label: "clippy", Description: "Linter"},
	{Value: "rust-src", Label: "rust-src", Description: "Standard library source"},
	{Value: "rust-analyzer", Label: "rust-analyzer", Description: "Language server"},
}

// ToOptions converts options to huh options.
func ToOptions(opts []Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		out[i] = huh.NewOption(o.Label+" - "+o.Description, o.Value)
	}
	return out
}

// Values returns the values of opts.
func Values(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}
