package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/listcutter-cli/internal/crosstab"
	"github.com/KaramelBytes/listcutter-cli/internal/dataset"
	"github.com/KaramelBytes/listcutter-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	ctRows      string
	ctCols      string
	ctFormat    string
	ctView      string
	ctOutput    string
	ctDelimiter string
	ctMaxRows   int
)

var crosstabCmd = &cobra.Command{
	Use:   "crosstab <file>",
	Short: "Cross-tabulate two columns of a CSV/TSV",
	Example: `  listcutter crosstab survey.csv --rows Gender --cols Region
  listcutter crosstab survey.csv --rows Gender --cols Region --format csv --view row -o gender_region.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ctRows == "" || ctCols == "" {
			return fmt.Errorf("--rows and --cols are required")
		}
		opt, err := datasetOptions(cmd, ctDelimiter, ctMaxRows)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], opt)
		if err != nil {
			return err
		}
		for _, w := range ds.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		res, err := crosstab.Build(ds.Records, ds.Columns, ctRows, ctCols)
		if err != nil {
			var ve *crosstab.ValidationError
			if errors.As(err, &ve) && ve.Kind == crosstab.UnknownColumn {
				return fmt.Errorf("%w (columns: %s)", err, strings.Join(ds.Columns.Names(), ", "))
			}
			return err
		}
		logger.Debug("crosstab built", "rows", len(res.RowKeys), "cols", len(res.ColumnKeys), "strategy", res.Metrics.Strategy())

		var buf bytes.Buffer
		switch strings.ToLower(ctFormat) {
		case "", "markdown", "md":
			if cmd.Flags().Changed("view") {
				v, err := crosstab.ParseView(ctView)
				if err != nil {
					return err
				}
				buf.WriteString(res.View(v))
			} else {
				buf.WriteString(res.Markdown())
			}
		case "csv":
			v, err := crosstab.ParseView(ctView)
			if err != nil {
				return err
			}
			if err := crosstab.WriteCSV(&buf, res, v); err != nil {
				return err
			}
		case "json":
			b, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte('\n')
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|csv|json)", ctFormat)
		}

		if ctOutput != "" {
			if err := os.WriteFile(ctOutput, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote crosstab to %s\n", ctOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

func init() {
	rootCmd.AddCommand(crosstabCmd)
	crosstabCmd.Flags().StringVarP(&ctRows, "rows", "r", "", "row variable (column name)")
	crosstabCmd.Flags().StringVarP(&ctCols, "cols", "c", "", "column variable (column name)")
	crosstabCmd.Flags().StringVar(&ctFormat, "format", "markdown", "output format: markdown|csv|json")
	crosstabCmd.Flags().StringVar(&ctView, "view", "counts", "numbers to show: counts|row|column|total")
	crosstabCmd.Flags().StringVarP(&ctOutput, "output", "o", "", "optional path to write the table")
	crosstabCmd.Flags().StringVar(&ctDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	crosstabCmd.Flags().IntVar(&ctMaxRows, "max-rows", 100000, "maximum rows to read (0 = unlimited)")
}
