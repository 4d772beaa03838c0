package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/listcutter-cli/internal/config"
	"github.com/KaramelBytes/listcutter-cli/internal/dataset"
	"github.com/KaramelBytes/listcutter-cli/internal/utils"
	"github.com/KaramelBytes/listcutter-cli/internal/view"
	"github.com/spf13/cobra"
)

var (
	initDescription string
	initDataset     string
	initTable       string
)

var initCmd = &cobra.Command{
	Use:   "init <view-name>",
	Short: "Create a saved view: a named filter set bound to a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if initDataset == "" {
			return fmt.Errorf("--dataset is required")
		}
		abs, err := filepath.Abs(initDataset)
		if err != nil {
			return fmt.Errorf("resolve dataset path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
		root, err := defaultViewsDir()
		if err != nil {
			return err
		}
		viewDir := filepath.Join(root, name)
		// Refuse to overwrite an existing view.
		if info, err := os.Stat(viewDir); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(viewDir, view.FileName)); err == nil {
				return fmt.Errorf("view already exists at %s", viewDir)
			}
			entries, err := os.ReadDir(viewDir)
			if err != nil {
				return fmt.Errorf("inspect view directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize view", viewDir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat view directory: %w", err)
		}
		v := view.New(name, initDescription, abs, viewDir)
		v.Table = initTable
		if err := v.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ View initialized: %s (table %s)\n", viewDir, v.TableName())
		return nil
	},
}

func defaultViewsDir() (string, error) {
	dir := currentConfig().ViewsDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, cfgpkg.DirName, "views")
	} else {
		expanded, err := utils.ExpandHome(dir)
		if err != nil {
			return "", err
		}
		dir = expanded
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// resolveViewDirByName maps a view name to its directory. "." finds the
// view enclosing the working directory.
func resolveViewDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("view name is required")
	}
	if name == "." {
		return utils.FindRoot("", view.FileName)
	}
	root, err := defaultViewsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func loadView(name string) (*view.View, error) {
	dir, err := resolveViewDirByName(name)
	if err != nil {
		return nil, err
	}
	return view.Load(dir)
}

// datasetOptions merges --delimiter/--max-rows flags over the config.
func datasetOptions(cmd *cobra.Command, delimiter string, maxRows int) (dataset.Options, error) {
	c := *currentConfig()
	if cmd.Flags().Changed("delimiter") {
		c.Delimiter = delimiter
	}
	if cmd.Flags().Changed("max-rows") {
		c.MaxRows = maxRows
	}
	d, err := c.DelimiterRune()
	if err != nil {
		return dataset.Options{}, fmt.Errorf("unsupported --delimiter: %w", err)
	}
	return dataset.Options{Delimiter: d, MaxRows: c.MaxRows}, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "view description")
	initCmd.Flags().StringVar(&initDataset, "dataset", "", "CSV/TSV file the view filters")
	initCmd.Flags().StringVar(&initTable, "table", "", "table name for the query (default: dataset base name)")
}
