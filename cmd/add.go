package cmd

import (
	"fmt"

	"github.com/KaramelBytes/listcutter-cli/internal/filter"
	"github.com/spf13/cobra"
)

var (
	addViewName    string
	removeViewName string
)

var addFilterCmd = &cobra.Command{
	Use:   "add-filter <column:operator[:value]>...",
	Short: "Add filters to a saved view",
	Example: `  listcutter add-filter -v women Gender:equals:Woman 'Age:>=:18'
  listcutter add-filter -v women Email:is_not_empty`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if addViewName == "" {
			return fmt.Errorf("--view is required")
		}
		v, err := loadView(addViewName)
		if err != nil {
			return err
		}
		for _, expr := range args {
			d, err := filter.ParseExpr(expr)
			if err != nil {
				return err
			}
			if _, err := v.AddFilter(d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Filter added: %s [%s]\n", d, shortID(d.ID))
		}
		return v.Save()
	},
}

var removeFilterCmd = &cobra.Command{
	Use:   "remove-filter <filter-id>...",
	Short: "Remove filters from a saved view by ID or unique ID prefix",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if removeViewName == "" {
			return fmt.Errorf("--view is required")
		}
		v, err := loadView(removeViewName)
		if err != nil {
			return err
		}
		for _, id := range args {
			d, err := v.RemoveFilter(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Filter removed: %s\n", d)
		}
		return v.Save()
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(addFilterCmd)
	rootCmd.AddCommand(removeFilterCmd)
	addFilterCmd.Flags().StringVarP(&addViewName, "view", "v", "", "view name (\".\" for the enclosing view directory)")
	removeFilterCmd.Flags().StringVarP(&removeViewName, "view", "v", "", "view name")
}
