package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/listcutter-cli/internal/view"
	"github.com/spf13/cobra"
)

var (
	listViews    bool
	listFilters  bool
	listViewName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved views or the filters of one view",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if listViews == listFilters { // either both true or both false
			return fmt.Errorf("specify exactly one of --views or --filters")
		}
		if listViews {
			return listAllViews(out)
		}
		if listViewName == "" {
			return fmt.Errorf("--view is required when using --filters")
		}
		v, err := loadView(listViewName)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s → %s (table %s)\n", v.Name, v.Dataset, v.TableName())
		if len(v.Filters) == 0 {
			fmt.Fprintln(out, "(no filters)")
			return nil
		}
		for _, d := range v.Filters {
			fmt.Fprintf(out, "- %s: %s\n", shortID(d.ID), d)
		}
		return nil
	},
}

func listAllViews(out io.Writer) error {
	root, err := defaultViewsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		v, err := view.Load(filepath.Join(root, e.Name()))
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "- %s (%d filters)\n", e.Name(), len(v.Filters))
		found = true
	}
	if !found {
		fmt.Fprintln(out, "(no views)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listViews, "views", false, "list saved views")
	listCmd.Flags().BoolVar(&listFilters, "filters", false, "list filters in a view")
	listCmd.Flags().StringVarP(&listViewName, "view", "v", "", "view name for --filters")
}
