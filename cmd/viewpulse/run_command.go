package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"viewpulse/internal/faults"
	"viewpulse/internal/pipeline"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

type runSummary struct {
	Category   report.Category `json:"category"`
	Date       report.Date     `json:"date"`
	RunID      string          `json:"run_id"`
	NoData     bool            `json:"no_data"`
	Videos     int             `json:"videos"`
	Shorts     int             `json:"shorts"`
	Longform   int             `json:"longform"`
	NewVideos  int             `json:"new_videos"`
	DurationMS int64           `json:"duration_ms"`
	Error      string          `json:"error,omitempty"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var categoryFlags []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute growth, stats, and rankings for a day",
		Long: `Run the daily batch for each category: growth against the nearest earlier
snapshot, the stats summary, then the top-K ranking update.

Categories come from --category, then pipeline.categories in the config,
then every category with stored data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}
			requested, err := parseCategoryList(categoryFlags)
			if err != nil {
				return err
			}
			return ctx.withRunner(func(runner *pipeline.Runner, st store.Store) error {
				categories, err := resolveRunCategories(cmd, ctx, st, requested)
				if err != nil {
					return err
				}
				if len(categories) == 0 {
					return faults.NoData("cli", "no categories configured or stored")
				}
				results, runErr := runner.RunAll(cmd.Context(), date, categories)
				if err := printRunResults(cmd, ctx, results); err != nil {
					return err
				}
				if runErr != nil {
					return runErr
				}
				if allNoData(results) {
					return faults.NoData("cli", fmt.Sprintf("no snapshots stored for %s", date))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Analysis date (YYYY-MM-DD, default today)")
	cmd.Flags().StringSliceVar(&categoryFlags, "category", nil, "Category to process (repeatable or comma-separated)")
	return cmd
}

func resolveRunCategories(cmd *cobra.Command, ctx *commandContext, st store.Store, requested []report.Category) ([]report.Category, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if len(cfg.Pipeline.Categories) > 0 {
		return parseCategoryList(cfg.Pipeline.Categories)
	}
	return st.Categories(cmd.Context())
}

func summarize(result pipeline.Result) runSummary {
	summary := runSummary{
		Category:   result.Category,
		Date:       result.Date,
		RunID:      result.RunID,
		NoData:     result.NoData,
		Videos:     len(result.Growth),
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.Err != nil {
		summary.Error = result.Err.Error()
	}
	if result.Stats != nil {
		summary.Shorts = result.Stats.ShortsCount
		summary.Longform = result.Stats.LongformCount
		summary.NewVideos = result.Stats.NewVideos
	}
	return summary
}

func printRunResults(cmd *cobra.Command, ctx *commandContext, results []pipeline.Result) error {
	summaries := make([]runSummary, len(results))
	for i, result := range results {
		summaries[i] = summarize(result)
	}

	if ctx.jsonOutput() {
		return writeJSON(cmd, summaries)
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		status := "ok"
		switch {
		case s.Error != "":
			status = "failed"
		case s.NoData:
			status = "no data"
		}
		rows = append(rows, []string{
			s.Category.String(),
			strconv.Itoa(s.Videos),
			strconv.Itoa(s.Shorts),
			strconv.Itoa(s.Longform),
			strconv.Itoa(s.NewVideos),
			status,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
		Headers: []string{"Category", "Videos", "Shorts", "Long", "New", "Status"},
		Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
		Rows:    rows,
	}))
	return nil
}

func allNoData(results []pipeline.Result) bool {
	for _, result := range results {
		if !result.NoData {
			return false
		}
	}
	return len(results) > 0
}
