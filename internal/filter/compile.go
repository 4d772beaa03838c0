package filter

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/listcutter-cli/internal/schema"
)

// DefaultTable is used when no table name is given.
const DefaultTable = "data"

// Options controls how query text is rendered.
type Options struct {
	// TableName is the FROM target. Empty means DefaultTable.
	TableName string `json:"tableName" yaml:"table_name"`
	// Format puts WHERE and each AND on their own line, ANDs indented by two spaces.
	Format bool `json:"format" yaml:"format"`
}

// DefaultOptions returns the options used by the CLI and API when none are given.
func DefaultOptions() Options {
	return Options{TableName: DefaultTable, Format: true}
}

// Compile renders filters as a SELECT statement over the table in opt.
// Descriptors that reference an unknown column, carry an unknown operator,
// or lack a required value are skipped. Inputs are not modified and the
// output depends only on the arguments.
func Compile(filters []Descriptor, columns schema.Columns, opt Options) string {
	table := opt.TableName
	if table == "" {
		table = DefaultTable
	}
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(QuoteTable(table))

	preds := Predicates(filters, columns)
	if len(preds) == 0 {
		return b.String()
	}
	where, sep := " WHERE ", " AND "
	if opt.Format {
		where, sep = "\nWHERE ", "\n  AND "
	}
	b.WriteString(where)
	b.WriteString(strings.Join(preds, sep))
	return b.String()
}

// Predicates returns the rendered predicate of every usable descriptor, in input order.
func Predicates(filters []Descriptor, columns schema.Columns) []string {
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		if p, ok := f.Predicate(columns); ok {
			out = append(out, p)
		}
	}
	return out
}

// Predicate renders a single descriptor. ok is false when the descriptor
// cannot be used yet.
func (d Descriptor) Predicate(columns schema.Columns) (string, bool) {
	if d.Column == "" || d.Operator == "" {
		return "", false
	}
	col, found := columns.Lookup(d.Column)
	if !found {
		return "", false
	}
	frag, known := fragments[d.Operator]
	if !known {
		return "", false
	}
	var v string
	if d.Operator.NeedsValue() {
		if d.Value == nil {
			return "", false
		}
		v = *d.Value
	}
	return frag(quoteIdentifier(col.Name), v, col.Type == schema.Number), true
}

// Usable splits filters into those Compile will render and those it skips.
func Usable(filters []Descriptor, columns schema.Columns) (kept, skipped []Descriptor) {
	for _, f := range filters {
		if _, ok := f.Predicate(columns); ok {
			kept = append(kept, f)
		} else {
			skipped = append(skipped, f)
		}
	}
	return kept, skipped
}

// FallbackQuery is the text callers show when query generation failed unexpectedly.
func FallbackQuery(table string) string {
	if table == "" {
		table = DefaultTable
	}
	return "SELECT * FROM " + QuoteTable(table) + " -- Error generating SQL"
}

// CompileSafe is Compile for callers that must always show some text. A
// panic during compilation yields FallbackQuery and a non-nil error.
func CompileSafe(filters []Descriptor, columns schema.Columns, opt Options) (q string, err error) {
	defer func() {
		if r := recover(); r != nil {
			q = FallbackQuery(opt.TableName)
			err = fmt.Errorf("compile query: %v", r)
		}
	}()
	return Compile(filters, columns, opt), nil
}
