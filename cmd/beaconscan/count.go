package main

import (
	"fmt"

	"github.com/praetorian-inc/beaconscan/pkg/config"
	"github.com/praetorian-inc/beaconscan/pkg/serve"
	"github.com/spf13/cobra"
)

var (
	countRow    int64
	countFormat string
	countColor  string
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count positions on a row that cannot hold a beacon",
	Long: `Count the positions on one row that are within range of a sensor and
therefore cannot hold an unknown beacon. Known beacons on the row are not
counted.`,
	Args: cobra.NoArgs,
	RunE: runCount,
}

func init() {
	countCmd.Flags().Int64Var(&countRow, "row", config.DefaultRow, "Row (y) to evaluate")
	countCmd.Flags().StringVar(&countFormat, "format", "human", "Output format: human, json")
	countCmd.Flags().StringVar(&countColor, "color", "auto", "Color output: auto, always, never")
}

func runCount(cmd *cobra.Command, args []string) error {
	if err := checkFormat(countFormat); err != nil {
		return err
	}

	analyzer, err := loadAnalyzer()
	if err != nil {
		return err
	}

	excluded := analyzer.CountExcluded(countRow)

	if countFormat == "json" {
		return outputJSON(cmd, serve.CountData{Row: countRow, Excluded: excluded})
	}

	s, err := resolveStyles(countColor)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s positions cannot contain a beacon\n",
		s.heading.Sprintf("Row %d:", countRow),
		s.value.Sprint(excluded),
	)
	return nil
}
