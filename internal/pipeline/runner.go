package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"viewpulse/internal/classify"
	"viewpulse/internal/config"
	"viewpulse/internal/csvio"
	"viewpulse/internal/faults"
	"viewpulse/internal/growth"
	"viewpulse/internal/logging"
	"viewpulse/internal/normalize"
	"viewpulse/internal/ranking"
	"viewpulse/internal/report"
	"viewpulse/internal/runctx"
	"viewpulse/internal/stats"
	"viewpulse/internal/store"
)

const (
	stageGrowth  = "growth"
	stageStats   = "stats"
	stageRanking = "ranking"
	stageImport  = "import"
)

// Result describes one category run.
type Result struct {
	Category report.Category
	Date     report.Date
	RunID    string
	// NoData is set when the category has no snapshot for Date. Nothing is
	// written in that case and earlier rankings stay untouched.
	NoData   bool
	Growth   []report.GrowthRecord
	Stats    *report.CategoryStats
	Ranking  *report.RankingSnapshot
	Duration time.Duration
	// Err is the category's failure when run through RunAll.
	Err error
}

// Runner wires the stages to one store.
type Runner struct {
	store      store.Store
	growth     *growth.Engine
	aggregator *ranking.Aggregator
	workers    int
	logger     *slog.Logger
}

// NewRunner builds the stages from cfg.
func NewRunner(cfg *config.Config, st store.Store, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "pipeline", "configure", "config is nil", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := ranking.Options{
		RetentionDays: cfg.Ranking.RetentionDays,
		TopK:          cfg.Ranking.TopK,
	}
	if cfg.Ranking.Reclassify {
		opts.Reclassifier = classify.New(cfg.RankingThresholdSeconds())
	}
	aggregator, err := ranking.NewAggregator(st, opts, logger)
	if err != nil {
		return nil, err
	}
	return &Runner{
		store:      st,
		growth:     growth.NewEngine(st, classify.New(cfg.GrowthThresholdSeconds()), logger),
		aggregator: aggregator,
		workers:    cfg.Pipeline.Workers,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// RunCategory processes one category for date while holding its lock.
func (r *Runner) RunCategory(ctx context.Context, category report.Category, date report.Date) (Result, error) {
	started := time.Now()
	result := Result{Category: category, Date: date, RunID: uuid.NewString()}
	ctx = runctx.WithRunID(ctx, result.RunID)
	ctx = runctx.WithCategory(ctx, category.String())
	ctx = runctx.WithDate(ctx, date.String())
	logger := logging.WithContext(ctx, r.logger)

	unlock, err := r.store.Lock(ctx, category)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := unlock(); err != nil {
			logging.WarnWithContext(logger, "category unlock failed", "lock_release",
				logging.Error(err),
				logging.String(logging.FieldImpact, "the next run for this category may wait for the lock timeout"),
			)
		}
	}()

	exists, err := r.hasSnapshot(ctx, category, date)
	if err != nil {
		return result, err
	}
	if !exists {
		result.NoData = true
		result.Duration = time.Since(started)
		logger.Info("no snapshot; category skipped")
		return result, nil
	}

	result.Growth, err = r.growth.ComputeGrowth(runctx.WithStage(ctx, stageGrowth), category, date)
	if err != nil {
		return result, err
	}

	summary := stats.Compute(category, date, result.Growth)
	if err := r.store.SaveStats(runctx.WithStage(ctx, stageStats), summary); err != nil {
		return result, faults.Wrap(faults.ErrStorage, stageStats, "save stats", summary.Key().String(), err)
	}
	result.Stats = &summary

	result.Ranking, err = r.aggregator.UpdateRanking(runctx.WithStage(ctx, stageRanking), category, result.Growth, date)
	if err != nil {
		return result, err
	}

	result.Duration = time.Since(started)
	logger.Info("category run complete",
		logging.Int("videos", len(result.Growth)),
		logging.Int("shorts", summary.ShortsCount),
		logging.Int("longform", summary.LongformCount),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

func (r *Runner) hasSnapshot(ctx context.Context, category report.Category, date report.Date) (bool, error) {
	dates, err := r.store.SnapshotDates(ctx, category)
	if err != nil {
		return false, faults.Wrap(faults.ErrStorage, stageGrowth, "list snapshots", category.String(), err)
	}
	for _, d := range dates {
		if d.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

// RunAll processes categories in parallel. Every category runs even when
// others fail; the returned error joins each failure. Results keep the input
// order.
func (r *Runner) RunAll(ctx context.Context, date report.Date, categories []report.Category) ([]Result, error) {
	results := make([]Result, len(categories))
	failures := make([]error, len(categories))

	var group errgroup.Group
	group.SetLimit(r.workers)
	for i, category := range categories {
		group.Go(func() error {
			result, err := r.RunCategory(ctx, category, date)
			result.Err = err
			results[i] = result
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", category, err)
				logging.ErrorWithContext(r.logger, "category run failed", "category_failed",
					logging.String(logging.FieldCategory, category.String()),
					logging.String(logging.FieldDate, date.String()),
					logging.Error(err),
				)
			}
			return nil
		})
	}
	_ = group.Wait()
	return results, errors.Join(failures...)
}

// ImportStats reports what an imported snapshot contained.
type ImportStats struct {
	Key        report.Key
	Rows       int
	Usable     int
	Dropped    int
	Duplicates int
}

// Import decodes a collector CSV and stores it as the raw snapshot for key,
// replacing any snapshot already stored for that day.
func (r *Runner) Import(ctx context.Context, key report.Key, src io.Reader) (ImportStats, error) {
	ctx = runctx.WithStage(runctx.WithDate(runctx.WithCategory(ctx, key.Category.String()), key.Date.String()), stageImport)
	logger := logging.WithContext(ctx, r.logger)
	out := ImportStats{Key: key}

	rows, err := csvio.Decode(src)
	if err != nil {
		return out, faults.Wrap(faults.ErrMalformedInput, stageImport, "decode csv", key.String(), err)
	}
	normalized := normalize.Normalizer{}.Normalize(rows)
	out.Rows = len(rows)
	out.Usable = len(normalized.Records)
	out.Dropped = normalized.Dropped
	out.Duplicates = normalized.Duplicates

	unlock, err := r.store.Lock(ctx, key.Category)
	if err != nil {
		return out, err
	}
	defer func() { _ = unlock() }()

	if err := r.store.SaveSnapshot(ctx, report.RawSnapshot{Key: key, Rows: rows}); err != nil {
		return out, faults.Wrap(faults.ErrStorage, stageImport, "save snapshot", key.String(), err)
	}
	if out.Dropped > 0 {
		logging.WarnWithContext(logger, "imported rows without a video id", "rows_dropped",
			logging.Int("dropped", out.Dropped),
			logging.String(logging.FieldImpact, "those rows are ignored by growth and ranking"),
			logging.String(logging.FieldErrorHint, "check the CSV has a video_id, videoid, or id column"),
		)
	}
	logger.Info("snapshot imported",
		logging.Int("rows", out.Rows),
		logging.Int("usable", out.Usable),
	)
	return out, nil
}
