package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/KaramelBytes/listcutter-cli/internal/schema"
)

// Options controls how a delimited file is loaded.
type Options struct {
	// MaxRows limits rows kept in memory; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, it is sniffed from the file name and header line.
	Delimiter rune
}

// DefaultOptions returns reasonable defaults for loading survey exports.
func DefaultOptions() Options {
	return Options{MaxRows: 100000}
}

// Dataset is a loaded table: typed columns plus one record per row. Cell
// values are kept as the raw strings read from the file.
type Dataset struct {
	Name      string
	Columns   schema.Columns
	Profiles  []Profile
	Records   []schema.Record
	Rows      int
	Processed int
	Warnings  []string
}

// Profile summarizes one column.
type Profile struct {
	Name     string
	Type     schema.DataType
	NonEmpty int
	Missing  int
	Unique   int
}

// Load reads a CSV or TSV file from disk.
func Load(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path), opt)
}

// Read loads a delimited table from r. The name is used for delimiter
// sniffing and reporting only.
func Read(r io.Reader, name string, opt Options) (*Dataset, error) {
	br := bufio.NewReader(r)
	delim := opt.Delimiter
	if delim == 0 {
		head, _ := br.Peek(4096)
		delim = sniffDelimiter(name, firstLine(head))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = delim

	ds := &Dataset{Name: name, Columns: schema.Columns{}, Records: []schema.Record{}}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ds, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := cleanHeader(header)
	ncol := len(names)

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	numeric := make([]bool, ncol)
	for i := range numeric {
		numeric[i] = true
	}
	nonEmpty := make([]int, ncol)
	seen := make([]map[string]struct{}, ncol)
	for i := range seen {
		seen[i] = make(map[string]struct{})
	}
	wide := false

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", ds.Rows+1, err)
		}
		ds.Rows++
		if ds.Processed >= maxRows {
			continue
		}
		ds.Processed++
		if len(rec) > ncol {
			wide = true
		}
		row := make(schema.Record, ncol)
		for j, col := range names {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			row[col] = v
			if v == "" {
				continue
			}
			nonEmpty[j]++
			seen[j][v] = struct{}{}
			if numeric[j] && !isNumber(v) {
				numeric[j] = false
			}
		}
		ds.Records = append(ds.Records, row)
	}

	for j, col := range names {
		t := schema.Text
		if numeric[j] && nonEmpty[j] > 0 {
			t = schema.Number
		}
		ds.Columns = append(ds.Columns, schema.Column{Name: col, Type: t})
		ds.Profiles = append(ds.Profiles, Profile{
			Name:     col,
			Type:     t,
			NonEmpty: nonEmpty[j],
			Missing:  ds.Processed - nonEmpty[j],
			Unique:   len(seen[j]),
		})
	}
	if wide {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("some rows have more than %d fields; extra fields ignored", ncol))
	}
	if ds.Processed < ds.Rows {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", ds.Processed, ds.Rows))
	}
	return ds, nil
}

// TableName derives a table name from a file path: the base name without
// its extension.
func TableName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// cleanHeader normalizes header names to NFC, strips a UTF-8 BOM, names
// blank headers by position and suffixes duplicates.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := norm.NFC.String(strings.TrimSpace(h))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		used[name]++
		if n := used[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		out[i] = name
	}
	return out
}

func sniffDelimiter(name, line string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	best, bestN := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

func firstLine(b []byte) string {
	s := string(b)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

func isNumber(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
