package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var categoryFlag string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a category's daily summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}
			category, err := parseCategoryFlag(categoryFlag)
			if err != nil {
				return err
			}
			key := report.Key{Category: category, Date: date}
			return ctx.withStore(func(st store.Store) error {
				summary, err := st.LoadStats(cmd.Context(), key)
				if err != nil {
					return err
				}
				if summary == nil {
					return noData("stats", key)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, summary)
				}
				printStats(cmd, summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Summary date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "Category to show")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func printStats(cmd *cobra.Command, summary *report.CategoryStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSectionHeader(fmt.Sprintf("Stats %s @ %s", summary.Category, summary.Date), shouldColorize(out)))
	fmt.Fprintln(out, renderTable(tableSpec{
		Headers: []string{"Metric", "Value"},
		Aligns:  []columnAlignment{alignLeft, alignRight},
		Rows: [][]string{
			{"Videos", strconv.Itoa(summary.TotalVideos)},
			{"Shorts", strconv.Itoa(summary.ShortsCount)},
			{"Long-form", strconv.Itoa(summary.LongformCount)},
			{"New videos", strconv.Itoa(summary.NewVideos)},
			{"Total views", formatCount(summary.TotalViews)},
			{"Views gained", formatCount(summary.TotalDelta)},
		},
	}))
	if len(summary.TopChannels) == 0 {
		return
	}
	rows := make([][]string, 0, len(summary.TopChannels))
	for i, channel := range summary.TopChannels {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(channel.Channel, titleWidth),
			strconv.Itoa(channel.Videos),
			formatCount(channel.Views),
		})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		Title:   "Top channels",
		Headers: []string{"#", "Channel", "Videos", "Views"},
		Aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignRight},
		Rows:    rows,
	}))
}
