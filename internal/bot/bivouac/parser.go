package bivouac

import (
	"regexp"
	"strings"
)

// Info is one bivouac spot extracted from a completion.
type Info struct {
	Name        string
	Spot        string
	Description string
}

var numberedLine = regexp.MustCompile(`^\s*\d+[.．]\s*(.*)$`)

// Parse extracts bivouac spots from a completion. A numbered line
// starts a new record with its name; following lines carrying the spot
// and description labels fill the open record. The open record is
// appended when the next numbered line starts or input ends, and only
// if its name is non-empty. Results are capped at MaxRecords.
func Parse(text string) []Info {
	var (
		records []Info
		current *Info
	)

	flush := func() {
		if current != nil && current.Name != "" && len(records) < MaxRecords {
			records = append(records, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			flush()
			current = &Info{Name: strings.TrimSpace(m[1])}
			continue
		}
		if current == nil {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if value, ok := labeledValue(trimmed, spotLabel); ok {
			current.Spot = value
		} else if value, ok := labeledValue(trimmed, descriptionLabel); ok {
			current.Description = value
		}
	}
	flush()

	return records
}

// labeledValue strips a fixed label prefix, tolerating a full-width
// colon in place of the label's half-width one.
func labeledValue(line, label string) (string, bool) {
	for _, l := range []string{label, strings.ReplaceAll(label, ":", "：")} {
		if strings.HasPrefix(line, l) {
			return strings.TrimSpace(strings.TrimPrefix(line, l)), true
		}
	}
	return "", false
}
