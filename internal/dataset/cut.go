package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/listcutter-cli/internal/schema"
)

// ErrNoColumns is returned by Cut when none of the requested columns exist.
var ErrNoColumns = errors.New("no valid columns selected")

// Cut returns a dataset restricted to the requested columns, in request
// order. Unknown and repeated names are skipped and reported.
func Cut(ds *Dataset, columns []string) (*Dataset, []string, error) {
	var keep schema.Columns
	var profiles []Profile
	var skipped []string
	picked := make(map[string]bool, len(columns))
	for _, name := range columns {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, ok := ds.Columns.Lookup(name)
		if !ok || picked[name] {
			skipped = append(skipped, name)
			continue
		}
		picked[name] = true
		keep = append(keep, c)
		for _, p := range ds.Profiles {
			if p.Name == name {
				profiles = append(profiles, p)
				break
			}
		}
	}
	if len(keep) == 0 {
		return nil, skipped, ErrNoColumns
	}

	out := &Dataset{
		Name:      ds.Name,
		Columns:   keep,
		Profiles:  profiles,
		Records:   make([]schema.Record, len(ds.Records)),
		Rows:      ds.Rows,
		Processed: ds.Processed,
		Warnings:  append([]string(nil), ds.Warnings...),
	}
	for i, rec := range ds.Records {
		row := make(schema.Record, len(keep))
		for _, c := range keep {
			if v, ok := rec[c.Name]; ok {
				row[c.Name] = v
			}
		}
		out.Records[i] = row
	}
	return out, skipped, nil
}

// WriteCSV writes the dataset with a header row. Missing cells are written
// empty.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	line := make([]string, len(d.Columns))
	for i, rec := range d.Records {
		for j, c := range d.Columns {
			v, ok := rec[c.Name]
			if !ok || v == nil {
				line[j] = ""
				continue
			}
			line[j] = schema.Stringify(v)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
