package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/listcutter-cli/internal/dataset"
	"github.com/KaramelBytes/listcutter-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cutColumns   []string
	cutOutput    string
	cutOutDir    string
	cutDelimiter string
	cutMaxRows   int
	cutQuiet     bool
)

var cutCmd = &cobra.Command{
	Use:   "cut <files...>",
	Short: "Export only the selected columns of one or more CSV/TSV files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cutColumns) == 0 {
			return fmt.Errorf("--columns is required")
		}
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)
		if len(files) > 1 && cutOutput != "" {
			return fmt.Errorf("--output takes a single input; use --output-dir for several")
		}

		opt, err := datasetOptions(cmd, cutDelimiter, cutMaxRows)
		if err != nil {
			return err
		}
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		total := len(files)
		for i, path := range files {
			if !cutQuiet && total > 1 {
				fmt.Fprintf(errOut, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, err := dataset.Load(path, opt)
			if err != nil {
				return err
			}
			sub, skipped, err := dataset.Cut(ds, cutColumns)
			if len(skipped) > 0 && !cutQuiet {
				fmt.Fprintf(errOut, "⚠ Warning: %s: unknown columns skipped: %s\n", filepath.Base(path), strings.Join(skipped, ", "))
			}
			if err != nil {
				if errors.Is(err, dataset.ErrNoColumns) {
					return fmt.Errorf("%s: %w (columns: %s)", filepath.Base(path), err, strings.Join(ds.Columns.Names(), ", "))
				}
				return err
			}

			target := cutOutput
			if cutOutDir != "" {
				if err := utils.EnsureDir(cutOutDir); err != nil {
					return err
				}
				target = uniquePath(cutOutDir, dataset.TableName(path), ".cut.csv")
			}
			if target == "" {
				if err := sub.WriteCSV(out); err != nil {
					return err
				}
				continue
			}
			f, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := sub.WriteCSV(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}
			if !cutQuiet {
				fmt.Fprintf(out, "✓ Wrote %d columns × %d rows to %s\n", len(sub.Columns), len(sub.Records), target)
			}
		}
		return nil
	},
}

// uniquePath returns dir/base+ext, or dir/base__N+ext if that exists.
func uniquePath(dir, base, ext string) string {
	p := filepath.Join(dir, base+ext)
	if _, err := os.Stat(p); err != nil {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(cutCmd)
	cutCmd.Flags().StringSliceVar(&cutColumns, "columns", nil, "comma-separated column names to keep, in order (repeatable)")
	cutCmd.Flags().StringVarP(&cutOutput, "output", "o", "", "output file for a single input (default: stdout)")
	cutCmd.Flags().StringVar(&cutOutDir, "output-dir", "", "write <name>.cut.csv files into this directory")
	cutCmd.Flags().StringVar(&cutDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	cutCmd.Flags().IntVar(&cutMaxRows, "max-rows", 0, "maximum rows to export (0 = unlimited; default from config)")
	cutCmd.Flags().BoolVar(&cutQuiet, "quiet", false, "suppress progress and non-essential output")
}
