package item

import (
	"regexp"
	"strings"
)

// Info is one suggested item extracted from a completion.
type Info struct {
	Name        string
	Description string
}

var numberedLine = regexp.MustCompile(`^\s*\d+[.．]\s*(.*)$`)

// Parse extracts items from a completion. A numbered line is split on
// its first colon into name and description; numbered lines without a
// colon are dropped. There is no cross-line accumulation. Results are
// capped at MaxRecords.
func Parse(text string) []Info {
	var records []Info
	for _, line := range strings.Split(text, "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, description, found := splitFirstColon(m[1])
		if !found || name == "" {
			continue
		}
		records = append(records, Info{Name: name, Description: description})
		if len(records) == MaxRecords {
			break
		}
	}
	return records
}

// splitFirstColon splits on the first half- or full-width colon,
// whichever comes first.
func splitFirstColon(s string) (name, rest string, found bool) {
	idx := -1
	width := 0
	for _, colon := range []string{":", "："} {
		if i := strings.Index(s, colon); i >= 0 && (idx < 0 || i < idx) {
			idx = i
			width = len(colon)
		}
	}
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+width:]), true
}
