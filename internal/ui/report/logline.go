package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Level classifies a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelSkip
	LevelWarning
	LevelError
)

var levelTags = map[Level]string{
	LevelInfo:    "[INFO]",
	LevelSuccess: "[ OK ]",
	LevelSkip:    "[SKIP]",
	LevelWarning: "[WARN]",
	LevelError:   "[FAIL]",
}

func (s Styles) tag(level Level) string {
	tag := levelTags[level]
	switch level {
	case LevelSuccess:
		return s.Success.Render(tag)
	case LevelSkip:
		return s.Dim.Render(tag)
	case LevelWarning:
		return s.Warning.Render(tag)
	case LevelError:
		return s.Failure.Render(tag)
	default:
		return s.Info.Render(tag)
	}
}

// Line formats one log line: a coloured tag, an optional phase, the
// message and any key=value fields in stable order.
func (s Styles) Line(level Level, phase, msg string, fields map[string]string) string {
	var b strings.Builder
	b.WriteString(s.tag(level))
	b.WriteByte(' ')
	if phase != "" {
		b.WriteString(s.Section.Render(phase))
		b.WriteString(": ")
	}
	b.WriteString(msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+fields[k])
		}
		b.WriteByte(' ')
		b.WriteString(s.Dim.Render("(" + strings.Join(parts, ", ") + ")"))
	}
	return b.String()
}

// WriteLine writes a formatted line followed by a newline.
func (s Styles) WriteLine(w io.Writer, level Level, phase, msg string, fields map[string]string) {
	_, _ = fmt.Fprintln(w, s.Line(level, phase, msg, fields))
}
