package filter

import (
	"fmt"
	"strings"
)

// Operator names a predicate kind a filter can apply to a column.
type Operator string

const (
	Equals       Operator = "equals"
	NotEquals    Operator = "not_equals"
	GreaterThan  Operator = "greater_than"
	LessThan     Operator = "less_than"
	GreaterEqual Operator = "greater_equal"
	LessEqual    Operator = "less_equal"
	Contains     Operator = "contains"
	NotContains  Operator = "not_contains"
	StartsWith   Operator = "starts_with"
	EndsWith     Operator = "ends_with"
	IsEmpty      Operator = "is_empty"
	IsNotEmpty   Operator = "is_not_empty"
)

// Operators lists every supported operator in display order.
func Operators() []Operator {
	return []Operator{
		Equals, NotEquals,
		GreaterThan, LessThan, GreaterEqual, LessEqual,
		Contains, NotContains, StartsWith, EndsWith,
		IsEmpty, IsNotEmpty,
	}
}

// fragment renders one predicate. col is already quoted; v is the raw user
// value; numeric tells whether the column is a NUMBER column.
type fragment func(col, v string, numeric bool) string

func comparison(op string) fragment {
	return func(col, v string, numeric bool) string {
		return col + " " + op + " " + formatValue(v, numeric)
	}
}

func like(not bool, prefix, suffix string) fragment {
	kw := " LIKE "
	if not {
		kw = " NOT LIKE "
	}
	return func(col, v string, _ bool) string {
		return col + kw + quoteLiteral(prefix+v+suffix)
	}
}

func nullCheck(kw string) fragment {
	return func(col, _ string, _ bool) string {
		return col + " " + kw
	}
}

var fragments = map[Operator]fragment{
	Equals:       comparison("="),
	NotEquals:    comparison("!="),
	GreaterThan:  comparison(">"),
	LessThan:     comparison("<"),
	GreaterEqual: comparison(">="),
	LessEqual:    comparison("<="),
	Contains:     like(false, "%", "%"),
	NotContains:  like(true, "%", "%"),
	StartsWith:   like(false, "", "%"),
	EndsWith:     like(false, "%", ""),
	IsEmpty:      nullCheck("IS NULL"),
	IsNotEmpty:   nullCheck("IS NOT NULL"),
}

// NeedsValue reports whether the operator reads the descriptor value.
func (o Operator) NeedsValue() bool {
	return o != IsEmpty && o != IsNotEmpty
}

// Valid reports whether o is a supported operator.
func (o Operator) Valid() bool {
	_, ok := fragments[o]
	return ok
}

// Symbol is a short human label used in listings.
func (o Operator) Symbol() string {
	switch o {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case GreaterEqual:
		return ">="
	case LessEqual:
		return "<="
	case Contains:
		return "contains"
	case NotContains:
		return "not contains"
	case StartsWith:
		return "starts with"
	case EndsWith:
		return "ends with"
	case IsEmpty:
		return "is empty"
	case IsNotEmpty:
		return "is not empty"
	}
	return string(o)
}

// ParseOperator accepts operator names case-insensitively, plus the
// comparison symbols.
func ParseOperator(s string) (Operator, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	switch t {
	case "=", "==", "eq":
		return Equals, nil
	case "!=", "<>", "ne":
		return NotEquals, nil
	case ">", "gt":
		return GreaterThan, nil
	case "<", "lt":
		return LessThan, nil
	case ">=", "gte":
		return GreaterEqual, nil
	case "<=", "lte":
		return LessEqual, nil
	}
	op := Operator(strings.ReplaceAll(t, "-", "_"))
	if !op.Valid() {
		return "", fmt.Errorf("unknown operator: %q", s)
	}
	return op, nil
}
