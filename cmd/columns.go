package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/listcutter-cli/internal/dataset"
	"github.com/KaramelBytes/listcutter-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	colDelimiter string
	colMaxRows   int
	colJSON      bool
	colOutput    string
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "List the columns of a CSV/TSV with their inferred types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := datasetOptions(cmd, colDelimiter, colMaxRows)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], opt)
		if err != nil {
			return err
		}
		var body []byte
		if colJSON {
			body, err = utils.PrettyJSON(ds.Columns)
			if err != nil {
				return err
			}
			body = append(body, '\n')
		} else {
			body = []byte(ds.Markdown())
		}
		if colOutput != "" {
			if err := os.WriteFile(colOutput, body, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote columns to %s\n", colOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringVar(&colDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	columnsCmd.Flags().IntVar(&colMaxRows, "max-rows", 100000, "maximum rows to read (0 = unlimited)")
	columnsCmd.Flags().BoolVar(&colJSON, "json", false, "print columns as JSON")
	columnsCmd.Flags().StringVarP(&colOutput, "output", "o", "", "optional path to write the listing")
}
