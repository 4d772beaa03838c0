package crosstab

import (
	"fmt"
	"strings"
)

// Markdown renders the result as compact text tables. Large tables drop the
// percentage tables, very large ones keep only the marginal totals.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[CROSSTAB]\n")
	b.WriteString(fmt.Sprintf("Rows: %s\n", safeCell(r.RowVariable)))
	if r.ColumnVariable != "" {
		b.WriteString(fmt.Sprintf("Columns: %s\n", safeCell(r.ColumnVariable)))
	}
	b.WriteString(fmt.Sprintf("Records: %d\n", r.Records))
	if r.IsEmpty() {
		b.WriteString("\n(no data)\n")
		return b.String()
	}
	m := r.Metrics
	b.WriteString(fmt.Sprintf("Cells: %d (non-zero %d, sparsity %.1f%%)\n", m.TotalCells, m.NonZeroCells, m.Sparsity))

	strategy := m.Strategy()
	switch strategy {
	case StrategySummary:
		r.writeMarginals(&b)
	case StrategyCompact:
		writeTable(&b, "COUNTS", r.grid(ViewCounts, mdPercent))
	default:
		writeTable(&b, "COUNTS", r.grid(ViewCounts, mdPercent))
		writeTable(&b, "ROW %", r.grid(ViewRowPercent, mdPercent))
		writeTable(&b, "COLUMN %", r.grid(ViewColumnPercent, mdPercent))
		writeTable(&b, "TOTAL %", r.grid(ViewTotalPercent, mdPercent))
	}
	if strategy != StrategyFull {
		b.WriteString("\n[NOTES]\n")
		b.WriteString(fmt.Sprintf("- %d cells exceed the %s threshold; ", m.TotalCells, strategy))
		if strategy == StrategySummary {
			b.WriteString("showing totals only\n")
		} else {
			b.WriteString("percentage tables omitted\n")
		}
	}
	return b.String()
}

// View renders a single table of the chosen view regardless of size.
func (r *Result) View(v View) string {
	var b strings.Builder
	if r.IsEmpty() {
		return "(no data)\n"
	}
	writeTable(&b, strings.ToUpper(string(v)), r.grid(v, mdPercent))
	return strings.TrimPrefix(b.String(), "\n")
}

func (r *Result) writeMarginals(b *strings.Builder) {
	b.WriteString("\n[ROW TOTALS]\n")
	for _, rk := range r.RowKeys {
		b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeCell(rk), r.RowTotals[rk], percent(r.RowTotals[rk], r.GrandTotal)))
	}
	b.WriteString("\n[COLUMN TOTALS]\n")
	for _, ck := range r.ColumnKeys {
		b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeCell(ck), r.ColumnTotals[ck], percent(r.ColumnTotals[ck], r.GrandTotal)))
	}
	b.WriteString(fmt.Sprintf("\nGrand total: %d\n", r.GrandTotal))
}

func mdPercent(f float64) string { return fmt.Sprintf("%.1f%%", f) }

func writeTable(b *strings.Builder, title string, g grid) {
	b.WriteString("\n[")
	b.WriteString(title)
	b.WriteString("]\n")
	writeRow(b, g.header)
	b.WriteString("|")
	for range g.header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range g.rows {
		writeRow(b, row)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(safeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func safeCell(s string) string {
	if s == "" {
		return "(blank)"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
