// Package report renders hostprep's terminal output: the coloured
// per-event log lines and the end-of-run summary. Rendering goes through a
// lipgloss renderer bound to the destination writer, so colours are dropped
// automatically when output is not a terminal.
package report
