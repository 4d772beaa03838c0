package filter

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Descriptor is one user-authored column filter.
type Descriptor struct {
	ID       string   `json:"id" yaml:"id,omitempty"`
	Column   string   `json:"column" yaml:"column"`
	Operator Operator `json:"operator" yaml:"operator"`
	// Value is nil when unset. Ignored by is_empty and is_not_empty.
	Value *string `json:"value" yaml:"value"`
}

// NewDescriptor builds a descriptor with a fresh ID. An empty value is kept
// as an empty string; use NewNullDescriptor for operators without a value.
func NewDescriptor(column string, op Operator, value string) Descriptor {
	v := value
	return Descriptor{ID: uuid.NewString(), Column: column, Operator: op, Value: &v}
}

// NewNullDescriptor builds a descriptor with a nil value.
func NewNullDescriptor(column string, op Operator) Descriptor {
	return Descriptor{ID: uuid.NewString(), Column: column, Operator: op}
}

// String renders the descriptor for listings.
func (d Descriptor) String() string {
	if !d.Operator.NeedsValue() {
		return fmt.Sprintf("%s %s", d.Column, d.Operator.Symbol())
	}
	if d.Value == nil {
		return fmt.Sprintf("%s %s (no value)", d.Column, d.Operator.Symbol())
	}
	return fmt.Sprintf("%s %s %q", d.Column, d.Operator.Symbol(), *d.Value)
}

// ParseExpr parses the CLI form "column:operator[:value]". The value may
// itself contain colons.
func ParseExpr(expr string) (Descriptor, error) {
	parts := strings.SplitN(expr, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
		return Descriptor{}, fmt.Errorf("invalid filter %q (want column:operator[:value])", expr)
	}
	op, err := ParseOperator(parts[1])
	if err != nil {
		return Descriptor{}, err
	}
	col := strings.TrimSpace(parts[0])
	if len(parts) == 3 {
		return NewDescriptor(col, op, parts[2]), nil
	}
	if op.NeedsValue() {
		return Descriptor{}, fmt.Errorf("filter %q: operator %s needs a value", expr, op)
	}
	return NewNullDescriptor(col, op), nil
}

// File is the on-disk form of a filter set.
type File struct {
	Table   string       `yaml:"table,omitempty"`
	Filters []Descriptor `yaml:"filters"`
}

// LoadFile reads a YAML (or JSON, which is valid YAML) filter file.
// Descriptors without an ID get one so they can be addressed later.
func LoadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filters: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse filters: %w", err)
	}
	for i := range f.Filters {
		if f.Filters[i].ID == "" {
			f.Filters[i].ID = uuid.NewString()
		}
	}
	return &f, nil
}

// SaveFile writes a filter file as YAML.
func SaveFile(path string, f *File) error {
	if f == nil {
		return errors.New("nil filter file")
	}
	b, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write filters: %w", err)
	}
	return nil
}
