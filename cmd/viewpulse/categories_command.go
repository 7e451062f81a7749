package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

type categoryInfo struct {
	Category       report.Category `json:"category"`
	Snapshots      int             `json:"snapshots"`
	LatestSnapshot *report.Date    `json:"latest_snapshot,omitempty"`
	LatestRanking  *report.Date    `json:"latest_ranking,omitempty"`
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with stored data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st store.Store) error {
				infos, err := collectCategories(cmd, st)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, infos)
				}
				out := cmd.OutOrStdout()
				if len(infos) == 0 {
					fmt.Fprintln(out, "No categories stored")
					return nil
				}
				rows := make([][]string, 0, len(infos))
				for _, info := range infos {
					rows = append(rows, []string{
						info.Category.String(),
						strconv.Itoa(info.Snapshots),
						dateOrDash(info.LatestSnapshot),
						dateOrDash(info.LatestRanking),
					})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					Headers: []string{"Category", "Snapshots", "Latest snapshot", "Latest ranking"},
					Aligns:  []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
					Rows:    rows,
				}))
				return nil
			})
		},
	}
}

func collectCategories(cmd *cobra.Command, st store.Store) ([]categoryInfo, error) {
	categories, err := st.Categories(cmd.Context())
	if err != nil {
		return nil, err
	}
	infos := make([]categoryInfo, 0, len(categories))
	for _, category := range categories {
		info := categoryInfo{Category: category}
		dates, err := st.SnapshotDates(cmd.Context(), category)
		if err != nil {
			return nil, err
		}
		info.Snapshots = len(dates)
		if len(dates) > 0 {
			latest := dates[len(dates)-1]
			info.LatestSnapshot = &latest
		}
		ranking, err := st.LoadRanking(cmd.Context(), category)
		if err != nil {
			return nil, err
		}
		if ranking != nil {
			date := ranking.AnalysisDate
			info.LatestRanking = &date
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func dateOrDash(date *report.Date) string {
	if date == nil {
		return "-"
	}
	return date.String()
}
