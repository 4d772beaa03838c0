package cmd

import (
	"fmt"

	"github.com/KaramelBytes/listcutter-cli/internal/dataset"
	"github.com/KaramelBytes/listcutter-cli/internal/filter"
	"github.com/spf13/cobra"
)

var (
	qWhere     []string
	qFilters   string
	qTable     string
	qCompact   bool
	qView      string
	qDelimiter string
	qMaxRows   int
	qSave      string
)

var queryCmd = &cobra.Command{
	Use:   "query [file]",
	Short: "Compile column filters into a SELECT statement",
	Example: `  listcutter query survey.csv --where Gender:equals:Woman --where 'Age:>=:18'
  listcutter query survey.csv --filters adults.yaml --compact
  listcutter query -v women`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var filters []filter.Descriptor
		var path, table string

		if qView != "" {
			v, err := loadView(qView)
			if err != nil {
				return err
			}
			path = v.DatasetPath()
			table = v.TableName()
			filters = append(filters, v.Filters...)
		}
		if len(args) == 1 {
			path = args[0]
			if qView == "" {
				table = dataset.TableName(path)
			}
		}
		if path == "" {
			return fmt.Errorf("a dataset file or --view is required")
		}
		if qFilters != "" {
			f, err := filter.LoadFile(qFilters)
			if err != nil {
				return err
			}
			filters = append(filters, f.Filters...)
			if f.Table != "" {
				table = f.Table
			}
		}
		for _, expr := range qWhere {
			d, err := filter.ParseExpr(expr)
			if err != nil {
				return err
			}
			filters = append(filters, d)
		}
		if qTable != "" {
			table = qTable
		}
		if table == "" {
			table = currentConfig().DefaultTable
		}

		opt, err := datasetOptions(cmd, qDelimiter, qMaxRows)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}
		for _, w := range ds.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		_, skipped := filter.Usable(filters, ds.Columns)
		for _, d := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: filter skipped: %s\n", d)
		}

		q, err := filter.CompileSafe(filters, ds.Columns, filter.Options{
			TableName: table,
			Format:    currentConfig().FormatSQL && !qCompact,
		})
		if err != nil {
			logger.Error("compile query", "err", err, "dataset", path)
		}
		logger.Debug("query compiled", "filters", len(filters), "skipped", len(skipped), "table", table)

		if qSave != "" {
			if err := filter.SaveFile(qSave, &filter.File{Table: table, Filters: filters}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Saved %d filters to %s\n", len(filters), qSave)
		}
		fmt.Fprintln(cmd.OutOrStdout(), q)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringArrayVarP(&qWhere, "where", "w", nil, "filter as column:operator[:value] (repeatable)")
	queryCmd.Flags().StringVarP(&qFilters, "filters", "f", "", "YAML/JSON filter file")
	queryCmd.Flags().StringVarP(&qTable, "table", "t", "", "table name (default: file base name)")
	queryCmd.Flags().BoolVar(&qCompact, "compact", false, "print the query on one line")
	queryCmd.Flags().StringVarP(&qView, "view", "v", "", "saved view to start from")
	queryCmd.Flags().StringVar(&qDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	queryCmd.Flags().IntVar(&qMaxRows, "max-rows", 100000, "maximum rows to read (0 = unlimited)")
	queryCmd.Flags().StringVar(&qSave, "save", "", "also write the combined filters to this YAML file")
}
