package trace

import (
	"fmt"
	"strings"
)

// Render formats the trace as indented plain text, one line per step,
// grouped by stage in recording order. Safe for nil traces.
func Render(t *Trace) string {
	if t == nil || len(t.Steps) == 0 {
		return "(empty trace)\n"
	}
	var b strings.Builder
	var current Stage
	for _, s := range t.Steps {
		if s.Stage != current {
			current = s.Stage
			fmt.Fprintf(&b, "%s:\n", current)
		}
		if s.Value != "" {
			fmt.Fprintf(&b, "  %-34s = %-20s [%s]\n", s.Predicate, s.Value, s.Outcome)
		} else {
			fmt.Fprintf(&b, "  %-34s %22s [%s]\n", s.Predicate, "", s.Outcome)
		}
	}
	return b.String()
}
