package host

import (
	"regexp"
	"strings"
)

// ContainsLine reports whether content has a line equal to line after
// trimming whitespace on both.
func ContainsLine(content, line string) bool {
	want := strings.TrimSpace(line)
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}

// AppendLine adds line to content unless it is already present.
func AppendLine(content, line string) (string, bool) {
	if ContainsLine(content, line) {
		return content, false
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line + "\n", true
}

// UncommentEntry makes entry an active line of content.
//
// If entry is already active nothing changes. Otherwise the first commented
// occurrence ("# entry", "#entry") is uncommented in place. Without a
// commented occurrence content is returned unchanged. Other commented copies
// are left alone, so content never ends up with two active copies.
func UncommentEntry(content, entry string) (string, bool) {
	entry = strings.TrimSpace(entry)
	if ContainsLine(content, entry) {
		return content, false
	}

	commented := regexp.MustCompile(`^\s*#\s*` + regexp.QuoteMeta(entry) + `\s*$`)
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		if commented.MatchString(l) {
			lines[i] = entry
			return strings.Join(lines, "\n"), true
		}
	}

	return content, false
}

// CountActive returns how many uncommented lines of content equal entry.
func CountActive(content, entry string) int {
	want := strings.TrimSpace(entry)
	n := 0
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == want {
			n++
		}
	}
	return n
}
