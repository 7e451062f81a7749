package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"viewpulse/internal/ranking"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

type rankingRow struct {
	report.RankingEntry
	Trend   ranking.Trend         `json:"trend,omitempty"`
	History []report.HistoryEntry `json:"history,omitempty"`
}

type rankingView struct {
	Category            report.Category `json:"category"`
	AnalysisDate        report.Date     `json:"analysis_date"`
	TotalVideosAnalyzed int             `json:"total_videos_analyzed"`
	Shorts              []rankingRow    `json:"shorts"`
	Longform            []rankingRow    `json:"longform"`
}

func newRankingCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var categoryFlag string
	var withHistory bool

	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Show the top-K shorts and long-form ranking",
		Long: `Show a category's ranking. Without --date the most recent ranking is shown.
The trend column compares each video's two latest positions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategoryFlag(categoryFlag)
			if err != nil {
				return err
			}
			return ctx.withStore(func(st store.Store) error {
				var snapshot *report.RankingSnapshot
				key := report.Key{Category: category}
				if strings.TrimSpace(dateFlag) == "" {
					snapshot, err = st.LoadRanking(cmd.Context(), category)
				} else {
					key.Date, err = parseDateFlag(dateFlag)
					if err != nil {
						return err
					}
					snapshot, err = st.LoadRankingAt(cmd.Context(), key)
				}
				if err != nil {
					return err
				}
				if snapshot == nil {
					return noData("ranking", key)
				}
				view := buildRankingView(snapshot, withHistory)
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				printRanking(cmd, view)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Analysis date (YYYY-MM-DD, default latest)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "Category to show")
	cmd.Flags().BoolVar(&withHistory, "history", false, "Include retained position history")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func buildRankingView(snapshot *report.RankingSnapshot, withHistory bool) rankingView {
	rows := func(entries []report.RankingEntry) []rankingRow {
		out := make([]rankingRow, 0, len(entries))
		for _, entry := range entries {
			row := rankingRow{RankingEntry: entry}
			if trend, ok := ranking.TrendFor(snapshot, entry.VideoID); ok {
				row.Trend = trend
			}
			if withHistory {
				row.History = snapshot.RetainedHistory[entry.VideoID]
			}
			out = append(out, row)
		}
		return out
	}
	return rankingView{
		Category:            snapshot.Category,
		AnalysisDate:        snapshot.AnalysisDate,
		TotalVideosAnalyzed: snapshot.TotalVideosAnalyzed,
		Shorts:              rows(snapshot.Shorts),
		Longform:            rows(snapshot.Longform),
	}
}

func printRanking(cmd *cobra.Command, view rankingView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderSectionHeader(fmt.Sprintf("Ranking %s @ %s", view.Category, view.AnalysisDate), colorize))
	fmt.Fprintf(out, "Videos analyzed: %d\n", view.TotalVideosAnalyzed)

	for _, bucket := range []struct {
		title string
		rows  []rankingRow
	}{
		{"Shorts", view.Shorts},
		{"Long-form", view.Longform},
	} {
		if len(bucket.rows) == 0 {
			fmt.Fprintf(out, "%s: none ranked\n", bucket.title)
			continue
		}
		rows := make([][]string, 0, len(bucket.rows))
		for _, row := range bucket.rows {
			line := []string{
				strconv.Itoa(row.RankPosition),
				trendMarker(row.Trend, row.Trend != "", colorize),
				truncate(row.Title, titleWidth),
				truncate(row.Channel, 24),
				formatCount(row.ViewsToday),
				formatDelta(row.Delta),
				row.LastSeen.String(),
			}
			if len(row.History) > 0 {
				line = append(line, formatHistory(row.History))
			}
			rows = append(rows, line)
		}
		headers := []string{"Rank", "Trend", "Title", "Channel", "Views", "Delta", "Last seen"}
		if len(bucket.rows[0].History) > 0 {
			headers = append(headers, "History")
		}
		fmt.Fprintln(out, renderTable(tableSpec{
			Title:   bucket.title,
			Headers: headers,
			Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			Rows:    rows,
		}))
	}
}

func formatHistory(history []report.HistoryEntry) string {
	parts := make([]string, len(history))
	for i, entry := range history {
		parts[i] = "#" + strconv.Itoa(entry.RankPosition)
	}
	return strings.Join(parts, " ")
}
