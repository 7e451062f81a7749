package testsupport

import (
	"context"
	"strconv"
	"testing"

	"viewpulse/internal/config"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
	"viewpulse/internal/store/backend"
)

// MustOpenStore opens the configured store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) store.Store {
	t.Helper()

	st, err := backend.Open(cfg)
	if err != nil {
		t.Fatalf("backend.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// Video builds a collector row with the current column names. A duration of
// zero or less leaves the duration column out.
func Video(id string, views int64, durationSeconds int) report.RawRow {
	row := report.RawRow{
		"video_id":    id,
		"title":       "Video " + id,
		"channel":     "Channel " + id,
		"views_today": strconv.FormatInt(views, 10),
	}
	if durationSeconds > 0 {
		row["duration_seconds"] = strconv.Itoa(durationSeconds)
	}
	return row
}

// SaveSnapshot stores rows as the raw snapshot for category on date.
func SaveSnapshot(t testing.TB, st store.Store, category, date string, rows ...report.RawRow) report.Key {
	t.Helper()

	key := report.Key{Category: report.Category(category), Date: report.MustParseDate(date)}
	if err := st.SaveSnapshot(context.Background(), report.RawSnapshot{Key: key, Rows: rows}); err != nil {
		t.Fatalf("SaveSnapshot %s: %v", key, err)
	}
	return key
}
