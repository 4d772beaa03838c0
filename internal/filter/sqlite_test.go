package filter

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/listcutter-cli/internal/schema"
)

// The compiled text is run against SQLite to prove it parses and selects
// the intended rows.
func TestCompile_ExecutesOnSQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE "survey 2025" ("Gender" TEXT, "Age" REAL, "Name" TEXT)`)
	require.NoError(t, err)
	rows := []struct {
		gender string
		age    any
		name   any
	}{
		{"Woman", 34, "Ann O'Brien"},
		{"Man", 17, "Bob"},
		{"Woman", 52, nil},
		{"Non-binary", 25, "Jo Smith"},
		{"Man", nil, "Jon Jonson"},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO "survey 2025" VALUES (?, ?, ?)`, r.gender, r.age, r.name)
		require.NoError(t, err)
	}

	cols := schema.Columns{
		{Name: "Gender", Type: schema.Text},
		{Name: "Age", Type: schema.Number},
		{Name: "Name", Type: schema.Text},
	}
	cases := []struct {
		name    string
		filters []Descriptor
		want    int
	}{
		{"none", nil, 5},
		{"numeric comparison", []Descriptor{f("Age", GreaterThan, "25")}, 2},
		{"escaped quote", []Descriptor{f("Name", Contains, "O'Brien")}, 1},
		{"is empty", []Descriptor{{Column: "Name", Operator: IsEmpty}}, 1},
		{"is not empty", []Descriptor{{Column: "Age", Operator: IsNotEmpty}}, 4},
		{"conjunction", []Descriptor{f("Gender", Equals, "Woman"), f("Age", GreaterEqual, "18")}, 2},
		{"starts with", []Descriptor{f("Name", StartsWith, "Jo")}, 2},
		{"ends with", []Descriptor{f("Name", EndsWith, "son")}, 1},
		{"not contains", []Descriptor{f("Name", NotContains, "Jo")}, 2},
		{"not equals", []Descriptor{f("Gender", NotEquals, "Man")}, 3},
		{"injection stays a literal", []Descriptor{f("Age", Equals, "1 OR 1=1")}, 0},
	}
	for _, tc := range cases {
		for _, format := range []bool{true, false} {
			q := Compile(tc.filters, cols, Options{TableName: "survey 2025", Format: format})
			var n int
			err := db.QueryRow("SELECT COUNT(*) FROM (" + q + ")").Scan(&n)
			require.NoError(t, err, "%s: %s", tc.name, q)
			require.Equal(t, tc.want, n, "%s: %s", tc.name, q)
		}
	}
}
