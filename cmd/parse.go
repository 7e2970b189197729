package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sddviz-cli/internal/parser"
	"github.com/KaramelBytes/sddviz-cli/internal/run"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
	"github.com/KaramelBytes/sddviz-cli/internal/utils"
)

var (
	parseOutDir string
	parseFormat string
	parseQuiet  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <files...>",
	Short: "Parse SDD reports into event tables (csv, tsv or arrow)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c := settings()
		format := c.OutputFormat
		if cmd.Flags().Changed("format") {
			format = parseFormat
		}
		f, err := table.ParseFormat(format)
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(parseOutDir); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		out := cmd.OutOrStdout()
		m := run.New("parse", parseOutDir)
		total := len(files)
		for i, path := range files {
			if !parseQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			l, err := parser.LoadFile(path, logger)
			if err != nil {
				return err
			}
			dest := utils.FreePath(parseOutDir, utils.BaseName(path), f.Ext())
			if !parseQuiet && filepath.Base(dest) != utils.BaseName(path)+f.Ext() {
				fmt.Fprintf(out, "⚠ Detected existing table, writing to %s to avoid overwrite.\n", filepath.Base(dest))
			}
			if err := l.Table.WriteFile(dest, f); err != nil {
				return err
			}
			if _, err := m.AddInput(path, l); err != nil {
				return err
			}
			m.AddOutput(dest)
			logger.Info("table written", zap.String("input", path), zap.String("output", dest),
				zap.Int("rows", l.Table.Len()), zap.Int("diagnostics", len(l.Diagnostics)))
			if !parseQuiet {
				fmt.Fprintf(out, "✓ %s (%d events, %d columns)\n", filepath.Base(dest), l.Table.Len(), l.Table.Width())
			}
		}
		return m.Save()
	},
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated
// file list.
func expandInputs(args []string) ([]string, error) {
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
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseOutDir, "out", "o", "parsed", "directory for the parsed tables and run.json")
	parseCmd.Flags().StringVar(&parseFormat, "format", "csv", "table format: csv|tsv|arrow (overrides config)")
	parseCmd.Flags().BoolVar(&parseQuiet, "quiet", false, "suppress progress and non-essential output")
}
