package filter

import (
	"math"
	"strconv"
	"strings"
)

// escapeString doubles single quotes for use inside a SQL string literal.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// quoteLiteral returns a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + escapeString(s) + "'"
}

// quoteIdentifier always double-quotes a column name.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteTable leaves plain names bare and double-quotes anything containing
// a character outside [A-Za-z0-9_].
func QuoteTable(name string) string {
	if isBareName(name) {
		return name
	}
	return quoteIdentifier(name)
}

func isBareName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isNumericLiteral reports whether s can be emitted unquoted as a SQL number.
// Only plain decimal notation with an optional sign, fraction and exponent
// qualifies; hex, underscores, Inf and NaN do not.
func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && c != '.' && c != '-' && c != '+' && c != 'e' && c != 'E' {
			return false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// formatValue renders a comparison operand according to the column type.
// Values of NUMBER columns that are not numeric literals are quoted so the
// text stays well-formed.
func formatValue(v string, numeric bool) string {
	if numeric && isNumericLiteral(v) {
		return v
	}
	return quoteLiteral(v)
}
