package growth

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"viewpulse/internal/classify"
	"viewpulse/internal/faults"
	"viewpulse/internal/logging"
	"viewpulse/internal/normalize"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

const stageName = "growth"

// Store is the subset of store.Store the engine depends on.
type Store interface {
	store.SnapshotReader
	store.GrowthWriter
}

// Engine computes and persists growth reports.
type Engine struct {
	store      Store
	classifier *classify.Classifier
	normalizer normalize.Normalizer
	logger     *slog.Logger
}

// NewEngine builds an engine. A nil logger discards output.
func NewEngine(st Store, classifier *classify.Classifier, logger *slog.Logger) *Engine {
	return &Engine{
		store:      st,
		classifier: classifier,
		logger:     logging.NewComponentLogger(logger, stageName),
	}
}

// ComputeGrowth diffs the category's snapshot for date against the nearest
// earlier snapshot and persists the result. A missing target snapshot yields
// an empty result and persists nothing.
func (e *Engine) ComputeGrowth(ctx context.Context, category report.Category, date report.Date) ([]report.GrowthRecord, error) {
	key := report.Key{Category: category, Date: date}
	logger := logging.WithContext(ctx, e.logger)

	current, err := e.store.LoadSnapshot(ctx, key)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStorage, stageName, "load snapshot", key.String(), err)
	}
	if current == nil {
		logger.Info("no snapshot for date", logging.String("key", key.String()))
		return []report.GrowthRecord{}, nil
	}

	today := e.normalize(logger, current)

	comparedTo, prior, err := e.loadComparison(ctx, logger, category, date)
	if err != nil {
		return nil, err
	}
	previous := map[string]report.VideoRecord{}
	if prior != nil {
		for _, record := range e.normalize(logger, prior) {
			previous[record.VideoID] = record
		}
	}
	if comparedTo == nil {
		logger.Info("no earlier snapshot; deltas unavailable")
	} else if gap := date.DaysSince(*comparedTo); gap > 1 {
		logging.WarnWithContext(logger, "comparing against non-adjacent snapshot", "growth_gap",
			logging.String("compared_to", comparedTo.String()),
			logging.Int("gap_days", gap),
			logging.String(logging.FieldImpact, "deltas span more than one day"),
			logging.String(logging.FieldErrorHint, "check the collector ran for the missing days"),
		)
	}

	records := make([]report.GrowthRecord, 0, len(today))
	for _, record := range today {
		prior, seen := previous[record.VideoID]
		if seen {
			record = inheritShape(record, prior)
		}
		records = append(records, e.buildRecord(record, prior, seen))
	}
	SortByViews(records)

	growth := report.GrowthReport{
		Category:   category,
		Date:       date,
		ComparedTo: comparedTo,
		Growth:     records,
	}
	if err := e.store.SaveGrowth(ctx, growth); err != nil {
		return nil, faults.Wrap(faults.ErrStorage, stageName, "save growth", key.String(), err)
	}

	logger.Info("growth computed",
		logging.Int("videos", len(records)),
		logging.Int("matched", countMatched(records)),
	)
	return records, nil
}

// loadComparison returns the nearest readable snapshot strictly before date.
// Corrupt earlier snapshots are skipped with a warning.
func (e *Engine) loadComparison(ctx context.Context, logger *slog.Logger, category report.Category, date report.Date) (*report.Date, *report.RawSnapshot, error) {
	before := date
	for {
		prevDate, ok, err := e.store.PreviousSnapshotDate(ctx, category, before)
		if err != nil {
			key := report.Key{Category: category, Date: before}
			return nil, nil, faults.Wrap(faults.ErrStorage, stageName, "find previous snapshot", key.String(), err)
		}
		if !ok {
			return nil, nil, nil
		}
		prevKey := report.Key{Category: category, Date: prevDate}
		prior, err := e.store.LoadSnapshot(ctx, prevKey)
		switch {
		case errors.Is(err, store.ErrCorrupt):
			logging.WarnWithContext(logger, "skipping unreadable comparison snapshot", "growth_corrupt_baseline",
				logging.String("snapshot", prevKey.String()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "deltas compare against an earlier snapshot or stay empty"),
				logging.String(logging.FieldErrorHint, "re-import or remove the corrupt snapshot"),
			)
			before = prevDate
			continue
		case err != nil:
			return nil, nil, faults.Wrap(faults.ErrStorage, stageName, "load previous snapshot", prevKey.String(), err)
		case prior == nil:
			before = prevDate
			continue
		}
		return &prevDate, prior, nil
	}
}

func (e *Engine) normalize(logger *slog.Logger, snapshot *report.RawSnapshot) []report.VideoRecord {
	result := e.normalizer.Normalize(snapshot.Rows)
	if result.Dropped > 0 || result.MalformedViews > 0 || result.MalformedDurations > 0 {
		logging.WarnWithContext(logger, "snapshot rows degraded during normalization", "malformed_rows",
			logging.String("snapshot", snapshot.Key.String()),
			logging.Int("dropped", result.Dropped),
			logging.Int("malformed_views", result.MalformedViews),
			logging.Int("malformed_durations", result.MalformedDurations),
			logging.String(logging.FieldImpact, "affected videos are skipped or counted with zero views"),
			logging.String(logging.FieldErrorHint, "inspect the collector CSV header and values"),
		)
	}
	if result.Duplicates > 0 {
		logger.Debug("duplicate video ids collapsed",
			logging.String("snapshot", snapshot.Key.String()),
			logging.Int("duplicates", result.Duplicates),
		)
	}
	return result.Records
}

func (e *Engine) buildRecord(record, prior report.VideoRecord, seen bool) report.GrowthRecord {
	out := report.GrowthRecord{
		VideoID:         record.VideoID,
		Title:           record.Title,
		Channel:         record.Channel,
		ViewsToday:      record.Views,
		IsShort:         e.classifier.Classify(record),
		DurationSeconds: record.DurationSeconds,
	}
	if seen {
		out.ViewsYesterday = report.Int64(prior.Views)
		out.Delta = report.Int64(record.Views - prior.Views)
	}
	return out
}

// inheritShape fills format signals today's row lacks from the earlier
// observation of the same video, so a video does not flip buckets just
// because one collector run omitted its duration.
func inheritShape(record, prior report.VideoRecord) report.VideoRecord {
	if record.DurationSeconds == nil && prior.DurationSeconds != nil {
		record.DurationSeconds = prior.DurationSeconds
	}
	if record.TypeHint == "" {
		record.TypeHint = prior.TypeHint
	}
	return record
}

// SortByViews orders records by views_today descending, ties by video id.
func SortByViews(records []report.GrowthRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].ViewsToday != records[j].ViewsToday {
			return records[i].ViewsToday > records[j].ViewsToday
		}
		return records[i].VideoID < records[j].VideoID
	})
}

func countMatched(records []report.GrowthRecord) int {
	matched := 0
	for _, record := range records {
		if record.Delta != nil {
			matched++
		}
	}
	return matched
}
