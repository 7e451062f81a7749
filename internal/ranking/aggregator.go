package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"viewpulse/internal/classify"
	"viewpulse/internal/faults"
	"viewpulse/internal/logging"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

const stageName = "ranking"

// Options tunes the aggregator.
type Options struct {
	// RetentionDays is how many trailing days a video stays eligible after
	// its last observation, and how long history entries are kept.
	RetentionDays int
	// TopK bounds each bucket.
	TopK int
	// Reclassifier, when set, re-derives is_short for entries with a known
	// duration. Nil trusts the growth stage's classification.
	Reclassifier *classify.Classifier
}

// Aggregator updates ranking snapshots.
type Aggregator struct {
	store  store.RankingStore
	opts   Options
	logger *slog.Logger
}

// NewAggregator validates opts and builds an aggregator.
func NewAggregator(st store.RankingStore, opts Options, logger *slog.Logger) (*Aggregator, error) {
	if opts.RetentionDays <= 0 {
		return nil, faults.Wrap(faults.ErrConfiguration, stageName, "configure", fmt.Sprintf("retention days must be positive, got %d", opts.RetentionDays), nil)
	}
	if opts.TopK <= 0 {
		return nil, faults.Wrap(faults.ErrConfiguration, stageName, "configure", fmt.Sprintf("top k must be positive, got %d", opts.TopK), nil)
	}
	return &Aggregator{
		store:  st,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, stageName),
	}, nil
}

// UpdateRanking recomputes and persists the snapshot for date.
func (a *Aggregator) UpdateRanking(ctx context.Context, category report.Category, records []report.GrowthRecord, date report.Date) (*report.RankingSnapshot, error) {
	key := report.Key{Category: category, Date: date}
	logger := logging.WithContext(ctx, a.logger)

	seed, err := a.store.RankingBefore(ctx, category, date)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStorage, stageName, "load previous ranking", key.String(), err)
	}

	candidates, carried := a.mergeCandidates(seed, records, date)
	eligible := make([]report.RankingEntry, 0, len(candidates))
	expired := 0
	for _, entry := range candidates {
		if a.withinWindow(date, entry.LastSeen) {
			eligible = append(eligible, entry)
		} else {
			expired++
		}
	}

	var shorts, longform []report.RankingEntry
	for _, entry := range eligible {
		if entry.IsShort {
			shorts = append(shorts, entry)
		} else {
			longform = append(longform, entry)
		}
	}
	shorts = a.rank(shorts)
	longform = a.rank(longform)

	var previous report.RankingHistory
	if seed != nil {
		previous = seed.RetainedHistory
	}
	history := a.buildHistory(previous, date, shorts, longform)

	snapshot := &report.RankingSnapshot{
		Category:            category,
		AnalysisDate:        date,
		Shorts:              shorts,
		Longform:            longform,
		TotalVideosAnalyzed: len(records),
		RetainedHistory:     history,
	}
	if err := a.store.SaveRanking(ctx, category, date, *snapshot); err != nil {
		return nil, faults.Wrap(faults.ErrStorage, stageName, "save ranking", key.String(), err)
	}

	logger.Info("ranking updated",
		logging.Int("shorts", len(shorts)),
		logging.Int("longform", len(longform)),
		logging.Int("carried", carried),
		logging.Int("expired", expired),
		logging.Int("tracked", len(history)),
	)
	return snapshot, nil
}

// mergeCandidates combines the seed's ranked entries with today's records,
// today's record winning on conflict. It returns how many seed entries were
// carried without a record today.
func (a *Aggregator) mergeCandidates(seed *report.RankingSnapshot, records []report.GrowthRecord, date report.Date) (map[string]report.RankingEntry, int) {
	candidates := make(map[string]report.RankingEntry, len(records))
	if seed != nil {
		for _, bucket := range [][]report.RankingEntry{seed.Shorts, seed.Longform} {
			for _, entry := range bucket {
				entry.RankPosition = 0
				candidates[entry.VideoID] = a.reclassify(entry)
			}
		}
	}
	fromSeed := len(candidates)
	replaced := 0
	for _, record := range records {
		if _, ok := candidates[record.VideoID]; ok {
			replaced++
		}
		candidates[record.VideoID] = a.reclassify(report.RankingEntry{GrowthRecord: record, LastSeen: date})
	}
	return candidates, fromSeed - replaced
}

func (a *Aggregator) reclassify(entry report.RankingEntry) report.RankingEntry {
	if a.opts.Reclassifier == nil {
		return entry
	}
	if short, ok := a.opts.Reclassifier.ByDuration(entry.DurationSeconds); ok {
		entry.IsShort = short
	}
	return entry
}

func (a *Aggregator) withinWindow(date, observed report.Date) bool {
	age := date.DaysSince(observed)
	return age >= 0 && age < a.opts.RetentionDays
}

func (a *Aggregator) rank(entries []report.RankingEntry) []report.RankingEntry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ViewsToday != entries[j].ViewsToday {
			return entries[i].ViewsToday > entries[j].ViewsToday
		}
		return entries[i].VideoID < entries[j].VideoID
	})
	if len(entries) > a.opts.TopK {
		entries = entries[:a.opts.TopK]
	}
	ranked := make([]report.RankingEntry, len(entries))
	for i, entry := range entries {
		entry.RankPosition = i + 1
		ranked[i] = entry
	}
	return ranked
}

// buildHistory copies previous, replaces any entries already recorded for
// date, appends today's positions, and prunes everything outside the window.
func (a *Aggregator) buildHistory(previous report.RankingHistory, date report.Date, buckets ...[]report.RankingEntry) report.RankingHistory {
	history := make(report.RankingHistory, len(previous))
	for id, entries := range previous {
		kept := make([]report.HistoryEntry, 0, len(entries)+1)
		for _, entry := range entries {
			if entry.Date.Equal(date) || !a.withinWindow(date, entry.Date) {
				continue
			}
			kept = append(kept, entry)
		}
		if len(kept) > 0 {
			history[id] = kept
		}
	}
	for _, bucket := range buckets {
		for _, entry := range bucket {
			history[entry.VideoID] = append(history[entry.VideoID], report.HistoryEntry{
				Date:         date,
				RankPosition: entry.RankPosition,
				Views:        entry.ViewsToday,
				Bucket:       report.BucketFor(entry.IsShort),
			})
		}
	}
	for id, entries := range history {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
		history[id] = entries
	}
	return history
}
