package crosstab

import (
	"sort"

	"github.com/KaramelBytes/listcutter-cli/internal/schema"
)

// ResultType distinguishes a populated table from an empty one.
type ResultType string

const (
	TypeTable ResultType = "crosstab"
	TypeEmpty ResultType = "empty"
)

// Size thresholds (in cells) for the presentation hints.
const (
	LargeCells     = 5000
	VeryLargeCells = 20000
)

// Result is a cross-tabulation of two categorical columns. It is not
// modified after Build returns it.
type Result struct {
	Type           ResultType `json:"type"`
	RowVariable    string     `json:"rowVariable"`
	ColumnVariable string     `json:"columnVariable"`
	Records        int        `json:"records"`

	RowKeys    []string `json:"rowKeys"`
	ColumnKeys []string `json:"columnKeys"`

	// Crosstab holds a count for every row key / column key pair, zeros included.
	Crosstab     map[string]map[string]int `json:"crosstab"`
	RowTotals    map[string]int            `json:"rowTotals"`
	ColumnTotals map[string]int            `json:"columnTotals"`
	GrandTotal   int                       `json:"grandTotal"`

	RowPercentages    map[string]map[string]float64 `json:"rowPercentages"`
	ColumnPercentages map[string]map[string]float64 `json:"columnPercentages"`
	TotalPercentages  map[string]map[string]float64 `json:"totalPercentages"`

	Metrics Metrics `json:"metrics"`
}

// Metrics are size hints for choosing a rendering strategy. They never
// affect the counts.
type Metrics struct {
	TotalCells   int     `json:"totalCells"`
	NonZeroCells int     `json:"nonZeroCells"`
	Sparsity     float64 `json:"sparsity"`
	IsLarge      bool    `json:"isLarge"`
	IsVeryLarge  bool    `json:"isVeryLarge"`
}

// Strategy names how a table of this size should be presented.
type Strategy string

const (
	StrategyFull    Strategy = "full"
	StrategyCompact Strategy = "compact"
	StrategySummary Strategy = "summary"
)

// Strategy picks a presentation for the table size.
func (m Metrics) Strategy() Strategy {
	switch {
	case m.IsVeryLarge:
		return StrategySummary
	case m.IsLarge:
		return StrategyCompact
	default:
		return StrategyFull
	}
}

// IsEmpty reports whether there was nothing to tabulate.
func (r *Result) IsEmpty() bool { return r == nil || r.Type == TypeEmpty }

// Build cross-tabulates records by rowVar (rows) and colVar (columns).
// Both variables must be distinct columns of cols. Values are grouped by
// their string form; missing and nil values form the "null" category.
// Keys are ordered as plain strings, so "10" sorts before "9".
func Build(records []schema.Record, cols schema.Columns, rowVar, colVar string) (*Result, error) {
	if rowVar == colVar {
		return nil, &ValidationError{Kind: SameVariable, Variable: rowVar}
	}
	for _, v := range []string{rowVar, colVar} {
		if !cols.Has(v) {
			return nil, &ValidationError{Kind: UnknownColumn, Variable: v}
		}
	}

	counts := make(map[string]map[string]int)
	colSeen := make(map[string]struct{})
	for _, rec := range records {
		r := schema.Stringify(rec[rowVar])
		c := schema.Stringify(rec[colVar])
		row := counts[r]
		if row == nil {
			row = make(map[string]int)
			counts[r] = row
		}
		row[c]++
		colSeen[c] = struct{}{}
	}

	res := &Result{
		Type:           TypeTable,
		RowVariable:    rowVar,
		ColumnVariable: colVar,
		Records:        len(records),
		RowKeys:        sortedKeys(counts),
		ColumnKeys:     sortedKeys(colSeen),
	}
	if len(res.RowKeys) == 0 || len(res.ColumnKeys) == 0 {
		res.Type = TypeEmpty
		res.RowKeys, res.ColumnKeys = []string{}, []string{}
		return res, nil
	}
	res.fill(counts)
	return res, nil
}

// fill densifies counts over RowKeys x ColumnKeys and derives totals,
// percentages and metrics.
func (r *Result) fill(counts map[string]map[string]int) {
	r.Crosstab = make(map[string]map[string]int, len(r.RowKeys))
	r.RowTotals = make(map[string]int, len(r.RowKeys))
	r.ColumnTotals = make(map[string]int, len(r.ColumnKeys))
	r.GrandTotal = 0
	nonZero := 0
	for _, rk := range r.RowKeys {
		row := make(map[string]int, len(r.ColumnKeys))
		for _, ck := range r.ColumnKeys {
			n := counts[rk][ck]
			row[ck] = n
			r.RowTotals[rk] += n
			r.ColumnTotals[ck] += n
			r.GrandTotal += n
			if n > 0 {
				nonZero++
			}
		}
		r.Crosstab[rk] = row
	}

	r.RowPercentages = make(map[string]map[string]float64, len(r.RowKeys))
	r.ColumnPercentages = make(map[string]map[string]float64, len(r.RowKeys))
	r.TotalPercentages = make(map[string]map[string]float64, len(r.RowKeys))
	for _, rk := range r.RowKeys {
		rp := make(map[string]float64, len(r.ColumnKeys))
		cp := make(map[string]float64, len(r.ColumnKeys))
		tp := make(map[string]float64, len(r.ColumnKeys))
		for _, ck := range r.ColumnKeys {
			n := r.Crosstab[rk][ck]
			rp[ck] = percent(n, r.RowTotals[rk])
			cp[ck] = percent(n, r.ColumnTotals[ck])
			tp[ck] = percent(n, r.GrandTotal)
		}
		r.RowPercentages[rk] = rp
		r.ColumnPercentages[rk] = cp
		r.TotalPercentages[rk] = tp
	}

	cells := len(r.RowKeys) * len(r.ColumnKeys)
	r.Metrics = Metrics{
		TotalCells:   cells,
		NonZeroCells: nonZero,
		Sparsity:     percent(nonZero, cells),
		IsLarge:      cells > LargeCells,
		IsVeryLarge:  cells > VeryLargeCells,
	}
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
