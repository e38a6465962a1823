package main

import (
	"fmt"

	"github.com/praetorian-inc/beaconscan/pkg/config"
	"github.com/praetorian-inc/beaconscan/pkg/serve"
	"github.com/spf13/cobra"
)

var (
	coverageRow          int64
	coverageIncludeKnown bool
	coverageFormat       string
	coverageColor        string
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Print the excluded intervals of a row",
	Long: `Print the disjoint intervals of x-coordinates on one row that sensors rule
out. With --include-known, positions of known beacons are covered as well.`,
	Args: cobra.NoArgs,
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().Int64Var(&coverageRow, "row", config.DefaultRow, "Row (y) to evaluate")
	coverageCmd.Flags().BoolVar(&coverageIncludeKnown, "include-known", false, "Also cover known beacon positions")
	coverageCmd.Flags().StringVar(&coverageFormat, "format", "human", "Output format: human, json")
	coverageCmd.Flags().StringVar(&coverageColor, "color", "auto", "Color output: auto, always, never")
}

func runCoverage(cmd *cobra.Command, args []string) error {
	if err := checkFormat(coverageFormat); err != nil {
		return err
	}

	analyzer, err := loadAnalyzer()
	if err != nil {
		return err
	}

	set := analyzer.Coverage(coverageRow, coverageIncludeKnown)

	if coverageFormat == "json" {
		return outputJSON(cmd, serve.CoverageData{
			Row:       coverageRow,
			Intervals: set.Intervals(),
			Length:    set.Len(),
		})
	}

	s, err := resolveStyles(coverageColor)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d interval(s), %s positions\n",
		s.heading.Sprintf("Row %d:", coverageRow),
		set.Count(),
		s.value.Sprint(set.Len()),
	)
	for _, iv := range set.Intervals() {
		fmt.Fprintf(out, "  %s %s\n", s.interval.Sprint(iv), s.muted.Sprintf("(%d)", iv.Len()))
	}
	return nil
}
