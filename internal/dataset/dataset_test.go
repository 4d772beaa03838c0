package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/listcutter-cli/internal/schema"
)

const surveyCSV = "\ufeffGender,Age,Name,Cafe\u0301\n" +
	"Woman,34,Ada,yes\n" +
	"Man,19,\"O'Brien, Pat\",no\n" +
	"Woman,,Jo\n" +
	"Nonbinary,52.5,Sam,yes\n"

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_InfersColumns(t *testing.T) {
	ds, err := Load(writeFile(t, "survey.csv", surveyCSV), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "survey.csv", ds.Name)
	assert.Equal(t, schema.Columns{
		{Name: "Gender", Type: schema.Text},
		{Name: "Age", Type: schema.Number},
		{Name: "Name", Type: schema.Text},
		{Name: "Caf\u00e9", Type: schema.Text},
	}, ds.Columns)
	assert.Equal(t, 4, ds.Rows)
	require.Len(t, ds.Records, 4)
	assert.Equal(t, "O'Brien, Pat", ds.Records[1]["Name"])
	assert.Equal(t, "", ds.Records[2]["Age"])
	assert.Equal(t, "", ds.Records[2]["Caf\u00e9"], "short rows are padded")
	assert.Empty(t, ds.Warnings)

	age := ds.Profiles[1]
	assert.Equal(t, 3, age.NonEmpty)
	assert.Equal(t, 1, age.Missing)
	assert.Equal(t, 3, age.Unique)
}

func TestLoad_HeaderIsNFC(t *testing.T) {
	ds, err := Load(writeFile(t, "survey.csv", surveyCSV), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, ds.Columns.Has("Caf\u00e9"))
	assert.False(t, ds.Columns.Has("Cafe\u0301"))
}

func TestLoad_Delimiters(t *testing.T) {
	ds, err := Load(writeFile(t, "s.tsv", "a\tb\n1\tx y\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Columns.Names())
	assert.Equal(t, "x y", ds.Records[0]["b"])

	ds, err = Load(writeFile(t, "s.csv", "a;b;c\n1;2;3\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ds.Columns.Names())

	ds, err = Load(writeFile(t, "s.txt", "a;b\n1;2\n"), Options{Delimiter: ','})
	require.NoError(t, err)
	assert.Equal(t, []string{"a;b"}, ds.Columns.Names())
}

func TestLoad_HeaderCleanup(t *testing.T) {
	ds, err := Read(strings.NewReader(" x ,,x\n1,2,3\n"), "h.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "column_2", "x_2"}, ds.Columns.Names())
}

func TestLoad_MaxRowsAndWideRows(t *testing.T) {
	body := "a,b\n1,2\n3,4,5\n6,7\n"
	ds, err := Read(strings.NewReader(body), "m.csv", Options{MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows)
	assert.Equal(t, 2, ds.Processed)
	assert.Len(t, ds.Records, 2)
	require.Len(t, ds.Warnings, 2)
	assert.Contains(t, ds.Warnings[0], "extra fields ignored")
	assert.Contains(t, ds.Warnings[1], "processed only 2/3 rows")
	assert.Contains(t, ds.Markdown(), "Rows: ~3 (processed 2)")
}

func TestLoad_EmptyAndMissing(t *testing.T) {
	ds, err := Read(strings.NewReader(""), "empty.csv", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, ds.Columns)
	assert.Empty(t, ds.Records)

	ds, err = Read(strings.NewReader("a,b\n,\n"), "blank.csv", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, schema.Text, ds.Columns[0].Type, "all-empty columns are text")

	_, err = Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	assert.Error(t, err)
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "survey 2025", TableName("/tmp/data/survey 2025.csv"))
	assert.Equal(t, "users", TableName("users.tsv"))
	assert.Equal(t, "noext", TableName("noext"))
	assert.Equal(t, "", TableName(""))
}

func TestCut(t *testing.T) {
	ds, err := Read(strings.NewReader(surveyCSV), "survey.csv", DefaultOptions())
	require.NoError(t, err)

	out, skipped, err := Cut(ds, []string{"Name", "Income", "Gender", "Name", " "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Income", "Name"}, skipped)
	assert.Equal(t, []string{"Name", "Gender"}, out.Columns.Names())
	require.Len(t, out.Profiles, 2)
	assert.Equal(t, "Name", out.Profiles[0].Name)
	assert.Len(t, out.Records, 4)
	assert.NotContains(t, out.Records[0], "Age")
	assert.Len(t, ds.Columns, 4, "source is untouched")

	var buf bytes.Buffer
	require.NoError(t, out.WriteCSV(&buf))
	assert.Equal(t, "Name,Gender\nAda,Woman\n\"O'Brien, Pat\",Man\nJo,Woman\nSam,Nonbinary\n", buf.String())

	_, skipped, err = Cut(ds, []string{"Income"})
	assert.True(t, errors.Is(err, ErrNoColumns))
	assert.Equal(t, []string{"Income"}, skipped)
}

func TestMarkdown(t *testing.T) {
	ds, err := Read(strings.NewReader(surveyCSV), "survey.csv", DefaultOptions())
	require.NoError(t, err)
	md := ds.Markdown()
	assert.Contains(t, md, "File: survey.csv\nRows: 4\nColumns: 4\n")
	assert.Contains(t, md, "- Age: NUMBER (non-empty 3, missing 25.0%, unique 3)\n")
	assert.NotContains(t, md, "[NOTES]")
}
