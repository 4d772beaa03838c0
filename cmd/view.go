package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	vsView  string
	vsClear bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Manage per-view settings",
}

var viewSetTableCmd = &cobra.Command{
	Use:   "set-table <table>",
	Short: "Set or clear a view's table name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if vsView == "" {
			return fmt.Errorf("--view is required")
		}
		v, err := loadView(vsView)
		if err != nil {
			return err
		}
		if vsClear {
			v.Table = ""
		} else {
			if len(args) == 0 || args[0] == "" {
				return fmt.Errorf("table is required unless --clear is set")
			}
			v.Table = args[0]
		}
		if err := v.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Table for %s: %s\n", vsView, v.TableName())
		return nil
	},
}

var viewSetDatasetCmd = &cobra.Command{
	Use:   "set-dataset <file>",
	Short: "Point a view at another dataset file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if vsView == "" {
			return fmt.Errorf("--view is required")
		}
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve dataset path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
		v, err := loadView(vsView)
		if err != nil {
			return err
		}
		v.Dataset = abs
		if err := v.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dataset for %s: %s\n", vsView, abs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.AddCommand(viewSetTableCmd)
	viewCmd.AddCommand(viewSetDatasetCmd)

	viewCmd.PersistentFlags().StringVarP(&vsView, "view", "v", "", "view name")
	viewSetTableCmd.Flags().BoolVar(&vsClear, "clear", false, "clear the table override")
}
