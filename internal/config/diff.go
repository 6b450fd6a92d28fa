package config

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffFromDefault returns a line diff from the default template to existing, with
// "-" for default lines missing from existing and "+" for lines only in existing.
// It returns "" when they match.
func DiffFromDefault(existing string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(DefaultConfigTemplate(), existing)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}
