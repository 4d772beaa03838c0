package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// DataType is the coarse type of a dataset column.
type DataType string

const (
	Text   DataType = "TEXT"
	Number DataType = "NUMBER"
)

// ParseDataType accepts the canonical names plus a few lowercase aliases.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TEXT", "STRING", "":
		return Text, nil
	case "NUMBER", "NUMERIC", "INT", "INTEGER", "FLOAT", "REAL":
		return Number, nil
	default:
		return "", fmt.Errorf("unknown data type: %q", s)
	}
}

// Column describes one column of a dataset.
type Column struct {
	Name string   `json:"name" yaml:"name"`
	Type DataType `json:"dataType" yaml:"dataType"`
}

// Columns is the ordered column set of a dataset. Names are unique and
// matched case-sensitively.
type Columns []Column

// Lookup returns the column with exactly the given name.
func (cs Columns) Lookup(name string) (Column, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Has reports whether a column with exactly the given name exists.
func (cs Columns) Has(name string) bool {
	_, ok := cs.Lookup(name)
	return ok
}

// Names returns column names in order.
func (cs Columns) Names() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// Validate checks that every column has a non-empty, unique name and a known type.
func (cs Columns) Validate() error {
	seen := make(map[string]struct{}, len(cs))
	for i, c := range cs {
		if c.Name == "" {
			return fmt.Errorf("column %d: empty name", i+1)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate column name: %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.Type != Text && c.Type != Number {
			return fmt.Errorf("column %q: unknown data type %q", c.Name, c.Type)
		}
	}
	return nil
}

// Record is one row of a dataset keyed by column name.
type Record map[string]any

// NullKey is the category used for missing and nil values.
const NullKey = "null"

// Stringify renders a record value as a category key.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return NullKey
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
