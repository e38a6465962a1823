package main

import (
	"context"
	"fmt"
	"time"

	"github.com/praetorian-inc/beaconscan"
	"github.com/praetorian-inc/beaconscan/pkg/config"
	"github.com/praetorian-inc/beaconscan/pkg/serve"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	searchBound   int64
	searchWorkers int
	searchTimeout time.Duration
	searchFormat  string
	searchColor   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the only position in a square no sensor rules out",
	Long: `Scan every row of the square [0, bound] x [0, bound] and report the single
position that no sensor excludes. Fails if the reports leave no such position
or more than one.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int64Var(&searchBound, "bound", config.DefaultBound, "Inclusive upper bound of both axes")
	searchCmd.Flags().IntVar(&searchWorkers, "workers", 0, "Rows evaluated concurrently (0 = one per CPU)")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "Give up after this long (0 = no limit)")
	searchCmd.Flags().StringVar(&searchFormat, "format", "human", "Output format: human, json")
	searchCmd.Flags().StringVar(&searchColor, "color", "auto", "Color output: auto, always, never")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(searchFormat); err != nil {
		return err
	}

	analyzer, err := loadAnalyzer(beaconscan.WithWorkers(searchWorkers))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, searchTimeout)
		defer cancel()
	}

	started := time.Now()
	pos, err := analyzer.FindGap(ctx, searchBound)
	if err != nil {
		return fmt.Errorf("searching [0, %d]: %w", searchBound, err)
	}
	logger.WithFields(logrus.Fields{
		"bound":   searchBound,
		"elapsed": time.Since(started).Round(time.Millisecond).String(),
	}).Info("search complete")

	if searchFormat == "json" {
		return outputJSON(cmd, serve.GapData{X: pos.X, Y: pos.Y})
	}

	s, err := resolveStyles(searchColor)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", s.heading.Sprint("Uncovered position:"), s.position.Sprint(pos))
	return nil
}
