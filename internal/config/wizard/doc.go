// Package wizard provides the interactive configuration wizard behind
// `hostprep init`.
//
// RunWizard asks a handful of questions with charmbracelet/huh forms and
// returns a Result. BuildConfig turns the answers into a config.Config on
// top of the defaults, and WriteConfig writes it as YAML with a header.
package wizard
