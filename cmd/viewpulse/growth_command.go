package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

func newGrowthCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var categoryFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Show a stored growth report",
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
				growth, err := st.LoadGrowth(cmd.Context(), key)
				if err != nil {
					return err
				}
				if growth == nil {
					return noData("growth report", key)
				}
				if limit > 0 && len(growth.Growth) > limit {
					growth.Growth = growth.Growth[:limit]
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, growth)
				}
				printGrowth(cmd, growth)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Report date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "Category to show")
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum rows to show (0 for all)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func printGrowth(cmd *cobra.Command, growth *report.GrowthReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderSectionHeader(fmt.Sprintf("Growth %s @ %s", growth.Category, growth.Date), colorize))
	if growth.ComparedTo != nil {
		fmt.Fprintf(out, "Compared to %s\n", growth.ComparedTo)
	} else {
		fmt.Fprintln(out, "No earlier snapshot; deltas unavailable")
	}

	rows := make([][]string, 0, len(growth.Growth))
	for i, record := range growth.Growth {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(record.Title, titleWidth),
			truncate(record.Channel, 24),
			formatCount(record.ViewsToday),
			formatOptional(record.ViewsYesterday),
			formatDelta(record.Delta),
			formatKind(record.IsShort),
		})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		Headers: []string{"#", "Title", "Channel", "Views", "Yesterday", "Delta", "Format"},
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		Rows:    rows,
	}))
}
