package dataset

import (
	"fmt"
	"strings"
)

// Markdown renders a compact schema summary.
func (d *Dataset) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", d.Name))
	}
	if d.Rows > 0 {
		if d.Processed < d.Rows {
			b.WriteString(fmt.Sprintf("Rows: ~%d (processed %d)\n", d.Rows, d.Processed))
		} else {
			b.WriteString(fmt.Sprintf("Rows: %d\n", d.Rows))
		}
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(d.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, p := range d.Profiles {
		total := p.NonEmpty + p.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(p.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-empty %d, missing %.1f%%, unique %d)\n", safeVal(p.Name), p.Type, p.NonEmpty, missPct, p.Unique))
	}
	if len(d.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range d.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
