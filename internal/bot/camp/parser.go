package camp

import (
	"regexp"
	"strings"
)

// Info is one camp site extracted from a completion.
type Info struct {
	Name string
}

// numberedLine matches the enumerated-line convention: a line starting
// with "N." (half- or full-width period).
var numberedLine = regexp.MustCompile(`^\s*\d+[.．]\s*(.*)$`)

// Parse extracts camp sites from a completion. Only numbered lines are
// used; the text after the "N." prefix becomes the name. Results are
// capped at MaxRecords. Malformed input yields fewer or no records,
// never an error.
func Parse(text string) []Info {
	var records []Info
	for _, line := range strings.Split(text, "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		records = append(records, Info{Name: name})
		if len(records) == MaxRecords {
			break
		}
	}
	return records
}
