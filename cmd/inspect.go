package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sddviz-cli/internal/analysis"
	"github.com/KaramelBytes/sddviz-cli/internal/parser"
)

var (
	insOutputPath string
	insSampleRows int
	insGroupBy    []string
	insCorr       bool
	insOutliers   bool
	insOutlierThr float64
	insMaxCats    int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize an SDD report or parsed table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := analysis.DefaultOptions()
		if insSampleRows >= 0 {
			opt.SampleRows = insSampleRows
		}
		if insMaxCats > 0 {
			opt.MaxCategories = insMaxCats
		}
		opt.GroupBy = insGroupBy
		opt.Correlations = insCorr
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = insOutliers
		}
		if insOutlierThr > 0 {
			opt.OutlierThreshold = insOutlierThr
		}

		l, err := parser.LoadFile(path, logger)
		if err != nil {
			return err
		}
		rep := analysis.Analyze(filepath.Base(path), l.Table, opt)
		rep.Warnings = append(append([]string{}, l.Diagnostics...), rep.Warnings...)
		md := rep.Markdown()

		if insOutputPath != "" {
			if err := os.WriteFile(insOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", insOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables)")
	inspectCmd.Flags().StringSliceVar(&insGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	inspectCmd.Flags().BoolVar(&insCorr, "correlations", false, "compute Pearson correlations among columns")
	inspectCmd.Flags().BoolVar(&insOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	inspectCmd.Flags().Float64Var(&insOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	inspectCmd.Flags().IntVar(&insMaxCats, "max-categories", 12, "largest integer domain summarized as value counts")
}
