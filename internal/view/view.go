package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/listcutter-cli/internal/dataset"
	"github.com/KaramelBytes/listcutter-cli/internal/filter"
	"github.com/KaramelBytes/listcutter-cli/internal/schema"
	"github.com/KaramelBytes/listcutter-cli/internal/utils"
)

const (
	// FileName is the view document inside a view directory.
	FileName = "view.json"
)

// View is a named filter set bound to a dataset, persisted on disk.
type View struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Dataset     string              `json:"dataset"`
	Table       string              `json:"table,omitempty"`
	Filters     []filter.Descriptor `json:"filters"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Not serialized: on-disk location of the view.json
	rootDir string `json:"-"`
}

// ErrFilterNotFound is returned when no filter matches a removal request.
var ErrFilterNotFound = errors.New("filter not found")

// New constructs an in-memory view. Call Save() to persist.
func New(name, description, datasetPath, rootDir string) *View {
	now := time.Now()
	return &View{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Dataset:     datasetPath,
		Filters:     []filter.Descriptor{},
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// Load reads a view.json from the provided directory.
func Load(dir string) (*View, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("view not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read view: %w", err)
	}
	var v View
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("parse view: %w", err)
	}
	if v.Filters == nil {
		v.Filters = []filter.Descriptor{}
	}
	v.rootDir = dir
	return &v, nil
}

// RootDir returns the on-disk view directory path.
func (v *View) RootDir() string { return v.rootDir }

// Save writes view.json using atomic write.
func (v *View) Save() error {
	if v.rootDir == "" {
		return errors.New("view root directory not set")
	}
	if err := utils.EnsureDir(v.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	v.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(v.rootDir, FileName), data)
}

// AddFilter appends a filter, assigning an ID when it has none. Filters
// with an unknown operator are rejected here rather than silently dropped
// at compile time.
func (v *View) AddFilter(d filter.Descriptor) (filter.Descriptor, error) {
	if strings.TrimSpace(d.Column) == "" {
		return d, errors.New("filter column is required")
	}
	if !d.Operator.Valid() {
		return d, fmt.Errorf("unknown operator: %q", d.Operator)
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	v.Filters = append(v.Filters, d)
	v.UpdatedAt = time.Now()
	return d, nil
}

// RemoveFilter deletes the filter whose ID equals id or starts with it.
// A prefix matching more than one filter is an error.
func (v *View) RemoveFilter(id string) (filter.Descriptor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return filter.Descriptor{}, errors.New("filter id is required")
	}
	match := -1
	for i, d := range v.Filters {
		if d.ID == id {
			match = i
			break
		}
		if strings.HasPrefix(d.ID, id) {
			if match >= 0 {
				return filter.Descriptor{}, fmt.Errorf("filter id %q is ambiguous", id)
			}
			match = i
		}
	}
	if match < 0 {
		return filter.Descriptor{}, fmt.Errorf("%w: %s", ErrFilterNotFound, id)
	}
	removed := v.Filters[match]
	v.Filters = append(v.Filters[:match:match], v.Filters[match+1:]...)
	v.UpdatedAt = time.Now()
	return removed, nil
}

// DatasetPath resolves the dataset path; relative paths are taken from the
// view directory.
func (v *View) DatasetPath() string {
	if v.Dataset == "" || filepath.IsAbs(v.Dataset) || v.rootDir == "" {
		return v.Dataset
	}
	return filepath.Join(v.rootDir, v.Dataset)
}

// TableName is the explicit table or, failing that, the dataset base name.
func (v *View) TableName() string {
	if v.Table != "" {
		return v.Table
	}
	return dataset.TableName(v.Dataset)
}

// Query compiles the view's filters against columns.
func (v *View) Query(columns schema.Columns, format bool) string {
	return filter.Compile(v.Filters, columns, filter.Options{TableName: v.TableName(), Format: format})
}

// Open loads the bound dataset.
func (v *View) Open(opt dataset.Options) (*dataset.Dataset, error) {
	if v.Dataset == "" {
		return nil, errors.New("view has no dataset")
	}
	return dataset.Load(v.DatasetPath(), opt)
}
