package crosstab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// View selects which numbers a rendering shows.
type View string

const (
	ViewCounts        View = "counts"
	ViewRowPercent    View = "row"
	ViewColumnPercent View = "column"
	ViewTotalPercent  View = "total"
)

// ParseView accepts the view names and a few aliases.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "counts", "count", "n":
		return ViewCounts, nil
	case "row", "rows", "row%":
		return ViewRowPercent, nil
	case "column", "col", "columns", "column%":
		return ViewColumnPercent, nil
	case "total", "total%", "grand":
		return ViewTotalPercent, nil
	}
	return "", fmt.Errorf("unknown view: %q (use counts|row|column|total)", s)
}

// TotalLabel heads the trailing totals row and column.
const TotalLabel = "Total"

// grid is a rendered table: body cells plus trailing totals column and row.
type grid struct {
	header []string
	rows   [][]string
}

func (r *Result) grid(v View, cellFmt func(float64) string) grid {
	g := grid{header: append(append([]string{r.RowVariable}, r.ColumnKeys...), TotalLabel)}
	count := func(n int) string { return strconv.Itoa(n) }
	pct := func(n, d int) string { return cellFmt(percent(n, d)) }

	for _, rk := range r.RowKeys {
		line := make([]string, 0, len(r.ColumnKeys)+2)
		line = append(line, rk)
		for _, ck := range r.ColumnKeys {
			n := r.Crosstab[rk][ck]
			switch v {
			case ViewRowPercent:
				line = append(line, pct(n, r.RowTotals[rk]))
			case ViewColumnPercent:
				line = append(line, pct(n, r.ColumnTotals[ck]))
			case ViewTotalPercent:
				line = append(line, pct(n, r.GrandTotal))
			default:
				line = append(line, count(n))
			}
		}
		switch v {
		case ViewCounts:
			line = append(line, count(r.RowTotals[rk]))
		case ViewRowPercent:
			line = append(line, pct(r.RowTotals[rk], r.RowTotals[rk]))
		default:
			line = append(line, pct(r.RowTotals[rk], r.GrandTotal))
		}
		g.rows = append(g.rows, line)
	}

	total := []string{TotalLabel}
	for _, ck := range r.ColumnKeys {
		switch v {
		case ViewCounts:
			total = append(total, count(r.ColumnTotals[ck]))
		case ViewColumnPercent:
			total = append(total, pct(r.ColumnTotals[ck], r.ColumnTotals[ck]))
		default:
			total = append(total, pct(r.ColumnTotals[ck], r.GrandTotal))
		}
	}
	if v == ViewCounts {
		total = append(total, count(r.GrandTotal))
	} else {
		total = append(total, pct(r.GrandTotal, r.GrandTotal))
	}
	g.rows = append(g.rows, total)
	return g
}

func csvPercent(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// WriteCSV writes the header row, one row per row key and a trailing
// totals row; every row ends with its total.
func WriteCSV(w io.Writer, r *Result, v View) error {
	if r == nil {
		return errors.New("nil crosstab result")
	}
	g := r.grid(v, csvPercent)
	cw := csv.NewWriter(w)
	if err := cw.Write(g.header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(g.rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// ReadCSV parses a counts export written by WriteCSV, rebuilds the table
// from its body cells and checks the recomputed totals against the
// exported ones.
func ReadCSV(rd io.Reader) (*Result, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1
	lines, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read crosstab csv: %w", err)
	}
	if len(lines) < 2 {
		return nil, errors.New("crosstab csv: need a header and a totals row")
	}
	header := lines[0]
	if len(header) < 2 || header[len(header)-1] != TotalLabel {
		return nil, errors.New("crosstab csv: header must end with the totals column")
	}
	colKeys := header[1 : len(header)-1]
	body, totals := lines[1:len(lines)-1], lines[len(lines)-1]
	width := len(header)

	res := &Result{Type: TypeTable, RowVariable: header[0], ColumnKeys: append([]string(nil), colKeys...)}
	counts := make(map[string]map[string]int, len(body))
	for i, line := range body {
		if len(line) != width {
			return nil, fmt.Errorf("crosstab csv row %d: %d fields, want %d", i+2, len(line), width)
		}
		rk := line[0]
		row := make(map[string]int, len(colKeys))
		for j, ck := range colKeys {
			n, err := strconv.Atoi(line[j+1])
			if err != nil {
				return nil, fmt.Errorf("crosstab csv row %d column %q: %w", i+2, ck, err)
			}
			row[ck] = n
			res.Records += n
		}
		counts[rk] = row
		res.RowKeys = append(res.RowKeys, rk)
	}
	if len(res.RowKeys) == 0 || len(res.ColumnKeys) == 0 {
		res.Type = TypeEmpty
		res.RowKeys, res.ColumnKeys = []string{}, []string{}
		return res, nil
	}
	res.fill(counts)

	if len(totals) != width || totals[0] != TotalLabel {
		return nil, errors.New("crosstab csv: malformed totals row")
	}
	for j, ck := range colKeys {
		if want, err := strconv.Atoi(totals[j+1]); err != nil || want != res.ColumnTotals[ck] {
			return nil, fmt.Errorf("crosstab csv: column total for %q is %s, recomputed %d", ck, totals[j+1], res.ColumnTotals[ck])
		}
	}
	if want, err := strconv.Atoi(totals[width-1]); err != nil || want != res.GrandTotal {
		return nil, fmt.Errorf("crosstab csv: grand total is %s, recomputed %d", totals[width-1], res.GrandTotal)
	}
	for i, line := range body {
		if want, err := strconv.Atoi(line[width-1]); err != nil || want != res.RowTotals[line[0]] {
			return nil, fmt.Errorf("crosstab csv row %d: total is %s, recomputed %d", i+2, line[width-1], res.RowTotals[line[0]])
		}
	}
	return res, nil
}
