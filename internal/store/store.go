package store

import (
	"context"

	"viewpulse/internal/report"
)

// Unlock releases a category lock.
type Unlock func() error

// SnapshotReader loads raw collector snapshots.
type SnapshotReader interface {
	// LoadSnapshot returns nil, nil when no snapshot exists for key.
	LoadSnapshot(ctx context.Context, key report.Key) (*report.RawSnapshot, error)
	// PreviousSnapshotDate finds the most recent snapshot strictly before the
	// given date.
	PreviousSnapshotDate(ctx context.Context, category report.Category, before report.Date) (report.Date, bool, error)
}

// GrowthWriter persists growth reports.
type GrowthWriter interface {
	// SaveGrowth overwrites the report stored for its (category, date).
	SaveGrowth(ctx context.Context, growth report.GrowthReport) error
}

// RankingStore reads and writes ranking snapshots.
type RankingStore interface {
	// RankingBefore returns the most recent ranking strictly before date, or nil.
	RankingBefore(ctx context.Context, category report.Category, date report.Date) (*report.RankingSnapshot, error)
	// SaveRanking overwrites the snapshot for exactly this date.
	SaveRanking(ctx context.Context, category report.Category, date report.Date, snapshot report.RankingSnapshot) error
}

// Store is the full persistence contract.
type Store interface {
	SnapshotReader
	GrowthWriter
	RankingStore

	// SaveSnapshot stores a raw snapshot, replacing any snapshot for the same day.
	SaveSnapshot(ctx context.Context, snapshot report.RawSnapshot) error
	// SnapshotDates lists the days with a raw snapshot, oldest first.
	SnapshotDates(ctx context.Context, category report.Category) ([]report.Date, error)

	LoadGrowth(ctx context.Context, key report.Key) (*report.GrowthReport, error)

	SaveStats(ctx context.Context, stats report.CategoryStats) error
	LoadStats(ctx context.Context, key report.Key) (*report.CategoryStats, error)

	// LoadRanking returns the most recent persisted ranking, or nil.
	LoadRanking(ctx context.Context, category report.Category) (*report.RankingSnapshot, error)
	// LoadRankingAt returns the ranking computed for exactly key.Date, or nil.
	LoadRankingAt(ctx context.Context, key report.Key) (*report.RankingSnapshot, error)

	// Categories lists every category with stored data, sorted.
	Categories(ctx context.Context) ([]report.Category, error)

	// Lock acquires the category's writer lock, waiting until ctx is done.
	Lock(ctx context.Context, category report.Category) (Unlock, error)

	Close() error
}
