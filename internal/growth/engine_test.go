package growth_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"viewpulse/internal/classify"
	"viewpulse/internal/faults"
	"viewpulse/internal/growth"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
	"viewpulse/internal/testsupport"
)

func newEngine(t *testing.T) (*growth.Engine, store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return growth.NewEngine(st, classify.New(cfg.GrowthThresholdSeconds()), nil), st
}

func byID(records []report.GrowthRecord) map[string]report.GrowthRecord {
	out := make(map[string]report.GrowthRecord, len(records))
	for _, r := range records {
		out[r.VideoID] = r
	}
	return out
}

func TestComputeGrowthDeltas(t *testing.T) {
	engine, st := newEngine(t)
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-01",
		testsupport.Video("a", 100, 600),
	)
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-02",
		testsupport.Video("a", 120, 600),
		testsupport.Video("b", 50, 30),
	)

	records, err := engine.ComputeGrowth(context.Background(), "PODCAST", report.MustParseDate("2024-05-02"))
	if err != nil {
		t.Fatalf("ComputeGrowth: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	got := byID(records)
	a := got["a"]
	if a.Delta == nil || *a.Delta != 20 {
		t.Fatalf("expected delta 20 for a, got %v", a.Delta)
	}
	if a.ViewsYesterday == nil || *a.ViewsYesterday != 100 {
		t.Fatalf("expected yesterday 100, got %v", a.ViewsYesterday)
	}
	b := got["b"]
	if b.Delta != nil || b.ViewsYesterday != nil {
		t.Fatalf("new video must have no delta, got %+v", b)
	}
	if !b.IsShort || a.IsShort {
		t.Fatalf("unexpected classification a=%v b=%v", a.IsShort, b.IsShort)
	}
	if records[0].VideoID != "a" {
		t.Fatalf("expected views-desc order, got %s first", records[0].VideoID)
	}
}

func TestComputeGrowthPersistsReport(t *testing.T) {
	engine, st := newEngine(t)
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-01", testsupport.Video("a", 10, 0))
	key := testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-02", testsupport.Video("a", 15, 0))

	if _, err := engine.ComputeGrowth(context.Background(), key.Category, key.Date); err != nil {
		t.Fatalf("ComputeGrowth: %v", err)
	}
	saved, err := st.LoadGrowth(context.Background(), key)
	if err != nil {
		t.Fatalf("LoadGrowth: %v", err)
	}
	if saved == nil || len(saved.Growth) != 1 {
		t.Fatalf("expected persisted report, got %+v", saved)
	}
	if saved.ComparedTo == nil || saved.ComparedTo.String() != "2024-05-01" {
		t.Fatalf("expected compared_to 2024-05-01, got %v", saved.ComparedTo)
	}
}

func TestComputeGrowthWithoutPriorSnapshot(t *testing.T) {
	engine, st := newEngine(t)
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-02",
		testsupport.Video("a", 10, 0),
		testsupport.Video("b", 20, 0),
	)

	records, err := engine.ComputeGrowth(context.Background(), "PODCAST", report.MustParseDate("2024-05-02"))
	if err != nil {
		t.Fatalf("ComputeGrowth: %v", err)
	}
	for _, r := range records {
		if r.Delta != nil || r.ViewsYesterday != nil {
			t.Fatalf("expected no deltas without a prior snapshot, got %+v", r)
		}
	}
}

func TestComputeGrowthFallsBackAcrossGap(t *testing.T) {
	engine, st := newEngine(t)
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-04-28", testsupport.Video("a", 70, 0))
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-02", testsupport.Video("a", 100, 0))
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-03", testsupport.Video("a", 999, 0))

	records, err := engine.ComputeGrowth(context.Background(), "PODCAST", report.MustParseDate("2024-05-02"))
	if err != nil {
		t.Fatalf("ComputeGrowth: %v", err)
	}
	if records[0].Delta == nil || *records[0].Delta != 30 {
		t.Fatalf("expected delta 30 against 04-28, got %v", records[0].Delta)
	}
}

func TestComputeGrowthMissingSnapshotIsEmpty(t *testing.T) {
	engine, st := newEngine(t)

	records, err := engine.ComputeGrowth(context.Background(), "PODCAST", report.MustParseDate("2024-05-02"))
	if err != nil {
		t.Fatalf("ComputeGrowth: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty result, got %d", len(records))
	}
	saved, err := st.LoadGrowth(context.Background(), report.Key{Category: "PODCAST", Date: report.MustParseDate("2024-05-02")})
	if err != nil {
		t.Fatalf("LoadGrowth: %v", err)
	}
	if saved != nil {
		t.Fatalf("nothing should be persisted, got %+v", saved)
	}
}

func TestComputeGrowthKeepsDurationFromPriorDay(t *testing.T) {
	engine, st := newEngine(t)
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-01", testsupport.Video("v1", 1000, 50))
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-02", testsupport.Video("v1", 1500, 0))

	records, err := engine.ComputeGrowth(context.Background(), "PODCAST", report.MustParseDate("2024-05-02"))
	if err != nil {
		t.Fatalf("ComputeGrowth: %v", err)
	}
	if !records[0].IsShort {
		t.Fatal("expected v1 to stay short using the earlier duration")
	}
	if records[0].DurationSeconds == nil || *records[0].DurationSeconds != 50 {
		t.Fatalf("expected inherited duration 50, got %v", records[0].DurationSeconds)
	}
}

func TestComputeGrowthCorruptSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	engine := growth.NewEngine(st, classify.New(180), nil)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DataDir, "PODCAST", "reports", "2024-05-02.csv"), "")

	_, err := engine.ComputeGrowth(context.Background(), "PODCAST", report.MustParseDate("2024-05-02"))
	if err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
	if !errors.Is(err, faults.ErrStorage) || !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("expected corrupt storage error, got %v", err)
	}
}

func TestComputeGrowthSkipsCorruptComparisonSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	engine := growth.NewEngine(st, classify.New(180), nil)
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-01", testsupport.Video("a", 100, 0))
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DataDir, "PODCAST", "reports", "2024-05-02.csv"), "")
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-03", testsupport.Video("a", 160, 0))

	date := report.MustParseDate("2024-05-03")
	records, err := engine.ComputeGrowth(context.Background(), "PODCAST", date)
	if err != nil {
		t.Fatalf("ComputeGrowth: %v", err)
	}
	if len(records) != 1 || records[0].Delta == nil || *records[0].Delta != 60 {
		t.Fatalf("expected delta 60 against 05-01, got %+v", records)
	}
	saved, err := st.LoadGrowth(context.Background(), report.Key{Category: "PODCAST", Date: date})
	if err != nil || saved == nil {
		t.Fatalf("LoadGrowth: %+v, %v", saved, err)
	}
	if saved.ComparedTo == nil || saved.ComparedTo.String() != "2024-05-01" {
		t.Fatalf("expected compared_to 2024-05-01, got %v", saved.ComparedTo)
	}
}

func TestComputeGrowthOnlyCorruptComparisonLeavesDeltasEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	engine := growth.NewEngine(st, classify.New(180), nil)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DataDir, "PODCAST", "reports", "2024-05-02.csv"), "")
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-03", testsupport.Video("a", 160, 0))

	records, err := engine.ComputeGrowth(context.Background(), "PODCAST", report.MustParseDate("2024-05-03"))
	if err != nil {
		t.Fatalf("ComputeGrowth: %v", err)
	}
	if len(records) != 1 || records[0].Delta != nil || records[0].ViewsYesterday != nil {
		t.Fatalf("expected null deltas, got %+v", records)
	}
}

type failingWriter struct {
	store.Store
}

func (failingWriter) SaveGrowth(context.Context, report.GrowthReport) error {
	return store.Fail("write", "growth", report.Key{}, errors.New("disk full"))
}

func TestComputeGrowthPropagatesWriteFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SaveSnapshot(t, st, "PODCAST", "2024-05-02", testsupport.Video("a", 1, 0))
	engine := growth.NewEngine(failingWriter{Store: st}, classify.New(180), nil)

	if _, err := engine.ComputeGrowth(context.Background(), "PODCAST", report.MustParseDate("2024-05-02")); !errors.Is(err, faults.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestSortByViewsBreaksTiesByID(t *testing.T) {
	records := []report.GrowthRecord{
		{VideoID: "c", ViewsToday: 5},
		{VideoID: "b", ViewsToday: 10},
		{VideoID: "a", ViewsToday: 5},
	}
	growth.SortByViews(records)
	want := []string{"b", "a", "c"}
	for i, id := range want {
		if records[i].VideoID != id {
			t.Fatalf("position %d: want %s got %s", i, id, records[i].VideoID)
		}
	}
}
