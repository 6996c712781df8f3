package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

const (
	checkMark = "[OK]"
	crossMark = "[!!]"
	skipMark  = "[--]"
	warnMark  = "[??]"
)

// Styles is the set of lipgloss styles bound to one renderer.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Failure lipgloss.Style
	Dim     lipgloss.Style
	Label   lipgloss.Style
}

// NewStyles builds styles for output written to w.
func NewStyles(w io.Writer) Styles {
	return StylesFor(lipgloss.NewRenderer(w))
}

// StylesFor builds styles from an existing renderer.
func StylesFor(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(colorWhite),
		Section: r.NewStyle().Bold(true).Foreground(colorBlue),
		Info:    r.NewStyle().Foreground(colorBlue),
		Success: r.NewStyle().Foreground(colorGreen),
		Warning: r.NewStyle().Foreground(colorYellow),
		Failure: r.NewStyle().Foreground(colorRed).Bold(true),
		Dim:     r.NewStyle().Foreground(colorDim),
		Label:   r.NewStyle().Width(18),
	}
}
