package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/listcutter-cli/internal/crosstab"
	"github.com/KaramelBytes/listcutter-cli/internal/view"
)

const surveyCSV = "Gender,Age,Name,Region\n" +
	"Woman,34,Ada,East\n" +
	"Man,19,O'Brien,West\n" +
	"Woman,61,Jo,East\n" +
	"Nonbinary,45,Sam,West\n"

// resetFlags clears values and Changed state that persist between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and return stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setupHome(t *testing.T) (home, csvPath string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	csvPath = filepath.Join(home, "survey 2025.csv")
	if err := os.WriteFile(csvPath, []byte(surveyCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return home, csvPath
}

func TestCLI_QueryFromFlags(t *testing.T) {
	_, csvPath := setupHome(t)

	out := runCmd(t, "query", csvPath, "--where", "Gender:equals:Woman", "--where", "Age:>=:18", "--where", "Income:equals:high")
	want := "SELECT * FROM \"survey 2025\"\nWHERE \"Gender\" = 'Woman'\n  AND \"Age\" >= 18\n"
	if out != want {
		t.Fatalf("query output:\n%s\nwant:\n%s", out, want)
	}

	out = runCmd(t, "query", csvPath, "--compact", "-t", "people", "-w", "Name:contains:O'Brien")
	if out != "SELECT * FROM people WHERE \"Name\" LIKE '%O''Brien%'\n" {
		t.Fatalf("compact output: %q", out)
	}

	out = runCmd(t, "query", csvPath)
	if out != "SELECT * FROM \"survey 2025\"\n" {
		t.Fatalf("no-filter output: %q", out)
	}
}

func TestCLI_QueryFiltersFileAndSave(t *testing.T) {
	home, csvPath := setupHome(t)
	ff := filepath.Join(home, "adults.yaml")
	yaml := "table: adults\nfilters:\n  - column: Age\n    operator: greater_equal\n    value: \"18\"\n  - column: Name\n    operator: is_not_empty\n"
	if err := os.WriteFile(ff, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	saved := filepath.Join(home, "combined.yaml")
	out := runCmd(t, "query", csvPath, "-f", ff, "-w", "Region:equals:East", "--compact", "--save", saved)
	want := "SELECT * FROM adults WHERE \"Age\" >= 18 AND \"Name\" IS NOT NULL AND \"Region\" = 'East'\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
	if _, err := os.Stat(saved); err != nil {
		t.Fatalf("saved filters missing: %v", err)
	}
	again := runCmd(t, "query", csvPath, "-f", saved, "--compact")
	if again != want {
		t.Fatalf("reloaded filters give %q, want %q", again, want)
	}
}

func TestCLI_QueryErrors(t *testing.T) {
	_, csvPath := setupHome(t)
	if _, err := execCmd("query"); err == nil {
		t.Fatalf("expected error without file or view")
	}
	if _, err := execCmd("query", csvPath, "-w", "Age:between:1"); err == nil {
		t.Fatalf("expected error for unknown operator")
	}
	if _, err := execCmd("query", csvPath, "-w", "Age:greater_than"); err == nil {
		t.Fatalf("expected error for missing value")
	}
}

func TestCLI_ViewLifecycle(t *testing.T) {
	home, csvPath := setupHome(t)

	runCmd(t, "init", "women", "--dataset", csvPath, "-d", "adult women")
	if _, err := execCmd("init", "women", "--dataset", csvPath); err == nil {
		t.Fatalf("expected error re-initializing an existing view")
	}
	runCmd(t, "add-filter", "-v", "women", "Gender:equals:Woman", "Age:>=:18")

	out := runCmd(t, "query", "-v", "women")
	want := "SELECT * FROM \"survey 2025\"\nWHERE \"Gender\" = 'Woman'\n  AND \"Age\" >= 18\n"
	if out != want {
		t.Fatalf("view query:\n%s\nwant:\n%s", out, want)
	}

	dir := filepath.Join(home, ".listcutter", "views", "women")
	v, err := view.Load(dir)
	if err != nil {
		t.Fatalf("load view: %v", err)
	}
	if len(v.Filters) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(v.Filters))
	}

	list := runCmd(t, "list", "--filters", "-v", "women")
	if !strings.Contains(list, shortID(v.Filters[0].ID)) || !strings.Contains(list, `Gender = "Woman"`) {
		t.Fatalf("filter listing missing entries:\n%s", list)
	}
	if views := runCmd(t, "list", "--views"); !strings.Contains(views, "- women (2 filters)") {
		t.Fatalf("view listing: %q", views)
	}

	runCmd(t, "remove-filter", "-v", "women", v.Filters[0].ID[:8])
	runCmd(t, "view", "set-table", "-v", "women", "responses")
	out = runCmd(t, "query", "-v", "women", "--compact")
	if out != "SELECT * FROM responses WHERE \"Age\" >= 18\n" {
		t.Fatalf("after removal: %q", out)
	}
}

func TestCLI_Crosstab(t *testing.T) {
	home, csvPath := setupHome(t)

	out := runCmd(t, "crosstab", csvPath, "--rows", "Gender", "--cols", "Region", "--format", "csv")
	want := "Gender,East,West,Total\nMan,0,1,1\nNonbinary,0,1,1\nWoman,2,0,2\nTotal,2,2,4\n"
	if out != want {
		t.Fatalf("csv:\n%s\nwant:\n%s", out, want)
	}

	md := runCmd(t, "crosstab", csvPath, "-r", "Gender", "-c", "Region")
	for _, s := range []string{"[COUNTS]", "[ROW %]", "| Woman | 2 | 0 | 2 |"} {
		if !strings.Contains(md, s) {
			t.Fatalf("markdown missing %q:\n%s", s, md)
		}
	}

	outFile := filepath.Join(home, "ct.json")
	runCmd(t, "crosstab", csvPath, "-r", "Gender", "-c", "Region", "--format", "json", "-o", outFile)
	b, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	var res crosstab.Result
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if res.GrandTotal != 4 || res.RowTotals["Woman"] != 2 {
		t.Fatalf("unexpected totals: %+v", res.RowTotals)
	}

	if _, err := execCmd("crosstab", csvPath, "-r", "Gender", "-c", "Gender"); err == nil {
		t.Fatalf("expected error for identical variables")
	}
	if _, err := execCmd("crosstab", csvPath, "-r", "Gender", "-c", "Income"); err == nil || !strings.Contains(err.Error(), "columns: Gender, Age, Name, Region") {
		t.Fatalf("expected unknown column error listing columns, got %v", err)
	}
}

func TestCLI_ColumnsAndCut(t *testing.T) {
	home, csvPath := setupHome(t)

	out := runCmd(t, "columns", csvPath, "--json")
	if !strings.Contains(out, `"dataType": "NUMBER"`) {
		t.Fatalf("columns json: %s", out)
	}
	if md := runCmd(t, "columns", csvPath); !strings.Contains(md, "- Age: NUMBER") {
		t.Fatalf("columns markdown: %s", md)
	}

	out = runCmd(t, "cut", csvPath, "--columns", "Name,Nope,Gender")
	if out != "Name,Gender\nAda,Woman\nO'Brien,Man\nJo,Woman\nSam,Nonbinary\n" {
		t.Fatalf("cut output: %q", out)
	}
	if _, err := execCmd("cut", csvPath, "--columns", "Nope"); err == nil {
		t.Fatalf("expected error when no columns are valid")
	}

	dir := filepath.Join(home, "out")
	runCmd(t, "cut", csvPath, "--columns", "Age", "--output-dir", dir, "--quiet")
	runCmd(t, "cut", csvPath, "--columns", "Age", "--output-dir", dir, "--quiet")
	for _, name := range []string{"survey 2025.cut.csv", "survey 2025__2.cut.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	setupHome(t)
	runCmd(t, "config", "set", "default_table", "responses")
	runCmd(t, "config", "set", "format_sql", "false")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "default_table: responses") || !strings.Contains(out, "format_sql: false") {
		t.Fatalf("config show:\n%s", out)
	}
	if _, err := execCmd("config", "set", "log_level", "loud"); err == nil {
		t.Fatalf("expected error for invalid log_level")
	}
	if _, err := execCmd("config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
