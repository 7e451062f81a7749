package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"viewpulse/internal/faults"
	"viewpulse/internal/pipeline"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var categoryFlag string

	cmd := &cobra.Command{
		Use:   "import <report.csv>",
		Short: "Store a collector CSV as a category's raw snapshot",
		Long: `Store a collector CSV report as the raw snapshot for one category and day.
Headers are kept verbatim; column aliases are resolved when the snapshot is
processed. Importing the same day again replaces the earlier snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}
			category, err := parseCategoryFlag(categoryFlag)
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return faults.Wrap(faults.ErrMalformedInput, "import", "open", args[0], err)
			}
			defer file.Close()

			key := report.Key{Category: category, Date: date}
			return ctx.withRunner(func(runner *pipeline.Runner, _ store.Store) error {
				result, err := runner.Import(cmd.Context(), key, file)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{
						"category":   key.Category,
						"date":       key.Date,
						"rows":       result.Rows,
						"usable":     result.Usable,
						"dropped":    result.Dropped,
						"duplicates": result.Duplicates,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d rows into %s @ %s\n", result.Rows, key.Category, key.Date)
				fmt.Fprintf(out, "  usable videos: %d\n", result.Usable)
				if result.Dropped > 0 {
					fmt.Fprintf(out, "  rows without a video id: %d\n", result.Dropped)
				}
				if result.Duplicates > 0 {
					fmt.Fprintf(out, "  duplicate video ids: %d\n", result.Duplicates)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Snapshot date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "Category the report belongs to")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}
