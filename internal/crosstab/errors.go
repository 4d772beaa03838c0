package crosstab

import "fmt"

// ValidationKind classifies a rejected variable choice.
type ValidationKind string

const (
	SameVariable  ValidationKind = "same_variable"
	UnknownColumn ValidationKind = "unknown_column"
)

// ValidationError reports a variable choice that cannot be cross-tabulated.
type ValidationError struct {
	Kind     ValidationKind
	Variable string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case SameVariable:
		return fmt.Sprintf("invalid crosstab: row and column variable are both %q", e.Variable)
	case UnknownColumn:
		return fmt.Sprintf("invalid crosstab: unknown column %q", e.Variable)
	}
	return fmt.Sprintf("invalid crosstab: %s", e.Variable)
}
