package main

import (
	"github.com/spf13/cobra"

	"github.com/sabq4org/consensus/internal/models"
)

func newTrendsCmd() *cobra.Command {
	var (
		timeframe string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Analyze trending topics and keywords",
		Long:  "Collects the content corpus for the selected window and merges topic and keyword analyses from two specialist providers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrends(cmd, timeframe, limit)
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "week", "Content window (day, week or month)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Corpus items per kind (0 uses the configured limit)")

	return cmd
}

func runTrends(cmd *cobra.Command, timeframe string, limit int) error {
	tf, err := models.ParseTimeframe(timeframe)
	if err != nil {
		return err
	}

	engine, cleanup, err := buildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := engine.AnalyzeTrends(cmd.Context(), tf, limit)
	if err != nil {
		return err
	}

	return printJSON(result)
}
