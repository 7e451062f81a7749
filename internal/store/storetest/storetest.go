// Package storetest is a conformance suite every store.Store backend runs.
package storetest

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"viewpulse/internal/faults"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

// Factory opens an empty store. Cleanup is the factory's job.
type Factory func(t *testing.T) store.Store

// Run executes the suite against stores produced by open.
func Run(t *testing.T, open Factory) {
	t.Helper()
	tests := []struct {
		name string
		fn   func(*testing.T, store.Store)
	}{
		{"SnapshotRoundTrip", testSnapshotRoundTrip},
		{"SnapshotMissing", testSnapshotMissing},
		{"SnapshotOverwrite", testSnapshotOverwrite},
		{"SnapshotDates", testSnapshotDates},
		{"GrowthRoundTrip", testGrowthRoundTrip},
		{"StatsRoundTrip", testStatsRoundTrip},
		{"RankingLookups", testRankingLookups},
		{"Categories", testCategories},
		{"LockExcludes", testLockExcludes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

func key(category, date string) report.Key {
	return report.Key{Category: report.Category(category), Date: report.MustParseDate(date)}
}

func mustSaveSnapshot(t *testing.T, st store.Store, k report.Key, rows ...report.RawRow) {
	t.Helper()
	if err := st.SaveSnapshot(context.Background(), report.RawSnapshot{Key: k, Rows: rows}); err != nil {
		t.Fatalf("SaveSnapshot %s: %v", k, err)
	}
}

func testSnapshotRoundTrip(t *testing.T, st store.Store) {
	k := key("PODCAST", "2024-05-01")
	rows := []report.RawRow{
		{"Video ID": "b", "View Count": "1,200", "duration": "PT1M"},
		{"Video ID": "a", "View Count": "7"},
	}
	mustSaveSnapshot(t, st, k, rows...)

	got, err := st.LoadSnapshot(context.Background(), k)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got == nil || got.Key != k || len(got.Rows) != 2 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if got.Rows[0]["Video ID"] != "b" || got.Rows[0]["View Count"] != "1,200" || got.Rows[0]["duration"] != "PT1M" {
		t.Fatalf("row order or values not preserved: %+v", got.Rows)
	}
	if got.Rows[1]["Video ID"] != "a" || got.Rows[1]["duration"] != "" {
		t.Fatalf("unexpected second row %+v", got.Rows[1])
	}
}

func testSnapshotMissing(t *testing.T, st store.Store) {
	got, err := st.LoadSnapshot(context.Background(), key("PODCAST", "2024-05-01"))
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing snapshot, got %+v, %v", got, err)
	}
	growth, err := st.LoadGrowth(context.Background(), key("PODCAST", "2024-05-01"))
	if err != nil || growth != nil {
		t.Fatalf("expected nil, nil for missing growth, got %+v, %v", growth, err)
	}
	ranking, err := st.LoadRanking(context.Background(), "PODCAST")
	if err != nil || ranking != nil {
		t.Fatalf("expected nil, nil for missing ranking, got %+v, %v", ranking, err)
	}
}

func testSnapshotOverwrite(t *testing.T, st store.Store) {
	k := key("PODCAST", "2024-05-01")
	mustSaveSnapshot(t, st, k, report.RawRow{"video_id": "a"}, report.RawRow{"video_id": "b"})
	mustSaveSnapshot(t, st, k, report.RawRow{"video_id": "c"})

	got, err := st.LoadSnapshot(context.Background(), k)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got.Rows) != 1 || got.Rows[0]["video_id"] != "c" {
		t.Fatalf("expected replaced snapshot, got %+v", got.Rows)
	}
	empty := key("PODCAST", "2024-05-02")
	mustSaveSnapshot(t, st, empty)
	got, err = st.LoadSnapshot(context.Background(), empty)
	if err != nil || got == nil || len(got.Rows) != 0 {
		t.Fatalf("expected empty snapshot to load, got %+v, %v", got, err)
	}
}

func testSnapshotDates(t *testing.T, st store.Store) {
	ctx := context.Background()
	for _, date := range []string{"2024-05-03", "2024-04-28", "2024-05-01"} {
		mustSaveSnapshot(t, st, key("PODCAST", date), report.RawRow{"video_id": "a"})
	}
	mustSaveSnapshot(t, st, key("MUSIC", "2024-05-02"), report.RawRow{"video_id": "a"})

	dates, err := st.SnapshotDates(ctx, "PODCAST")
	if err != nil {
		t.Fatalf("SnapshotDates: %v", err)
	}
	var got []string
	for _, d := range dates {
		got = append(got, d.String())
	}
	if want := []string{"2024-04-28", "2024-05-01", "2024-05-03"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("SnapshotDates = %v, want %v", got, want)
	}

	cases := []struct {
		before string
		want   string
		ok     bool
	}{
		{"2024-05-03", "2024-05-01", true},
		{"2024-05-02", "2024-05-01", true},
		{"2024-05-10", "2024-05-03", true},
		{"2024-04-28", "", false},
	}
	for _, tc := range cases {
		prev, ok, err := st.PreviousSnapshotDate(ctx, "PODCAST", report.MustParseDate(tc.before))
		if err != nil {
			t.Fatalf("PreviousSnapshotDate(%s): %v", tc.before, err)
		}
		if ok != tc.ok || (ok && prev.String() != tc.want) {
			t.Fatalf("PreviousSnapshotDate(%s) = %s, %v; want %s, %v", tc.before, prev, ok, tc.want, tc.ok)
		}
	}
}

func testGrowthRoundTrip(t *testing.T, st store.Store) {
	ctx := context.Background()
	prev := report.MustParseDate("2024-05-01")
	growth := report.GrowthReport{
		Category:   "PODCAST",
		Date:       report.MustParseDate("2024-05-02"),
		ComparedTo: &prev,
		Growth: []report.GrowthRecord{
			{VideoID: "a", Title: "A", Channel: "c", ViewsToday: 120, ViewsYesterday: report.Int64(100), Delta: report.Int64(20), IsShort: true, DurationSeconds: report.Int(30)},
			{VideoID: "b", Title: "B", Channel: "c", ViewsToday: 5},
		},
	}
	if err := st.SaveGrowth(ctx, growth); err != nil {
		t.Fatalf("SaveGrowth: %v", err)
	}
	got, err := st.LoadGrowth(ctx, growth.Key())
	if err != nil {
		t.Fatalf("LoadGrowth: %v", err)
	}
	if !reflect.DeepEqual(*got, growth) {
		t.Fatalf("growth mismatch:\n got %+v\nwant %+v", *got, growth)
	}
}

func testStatsRoundTrip(t *testing.T, st store.Store) {
	ctx := context.Background()
	stats := report.CategoryStats{
		Category:    "PODCAST",
		Date:        report.MustParseDate("2024-05-02"),
		TotalVideos: 2,
		ShortsCount: 1,
		TotalViews:  125,
		TopChannels: []report.ChannelViews{{Channel: "c", Videos: 2, Views: 125}},
	}
	if err := st.SaveStats(ctx, stats); err != nil {
		t.Fatalf("SaveStats: %v", err)
	}
	got, err := st.LoadStats(ctx, stats.Key())
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if !reflect.DeepEqual(*got, stats) {
		t.Fatalf("stats mismatch:\n got %+v\nwant %+v", *got, stats)
	}
}

func ranking(date string, ids ...string) report.RankingSnapshot {
	d := report.MustParseDate(date)
	snap := report.RankingSnapshot{
		Category:        "PODCAST",
		AnalysisDate:    d,
		Shorts:          []report.RankingEntry{},
		Longform:        []report.RankingEntry{},
		RetainedHistory: report.RankingHistory{},
	}
	for i, id := range ids {
		snap.Shorts = append(snap.Shorts, report.RankingEntry{
			GrowthRecord: report.GrowthRecord{VideoID: id, ViewsToday: int64(100 - i), IsShort: true},
			RankPosition: i + 1,
			LastSeen:     d,
		})
		snap.RetainedHistory[id] = []report.HistoryEntry{{Date: d, RankPosition: i + 1, Views: int64(100 - i), Bucket: report.BucketShorts}}
	}
	snap.TotalVideosAnalyzed = len(ids)
	return snap
}

func testRankingLookups(t *testing.T, st store.Store) {
	ctx := context.Background()
	for _, snap := range []report.RankingSnapshot{
		ranking("2024-05-01", "a"),
		ranking("2024-05-03", "b", "a"),
	} {
		if err := st.SaveRanking(ctx, snap.Category, snap.AnalysisDate, snap); err != nil {
			t.Fatalf("SaveRanking: %v", err)
		}
	}

	latest, err := st.LoadRanking(ctx, "PODCAST")
	if err != nil || latest == nil || latest.AnalysisDate.String() != "2024-05-03" {
		t.Fatalf("LoadRanking = %+v, %v", latest, err)
	}
	want := ranking("2024-05-03", "b", "a")
	if !reflect.DeepEqual(*latest, want) {
		t.Fatalf("ranking mismatch:\n got %+v\nwant %+v", *latest, want)
	}

	before, err := st.RankingBefore(ctx, "PODCAST", report.MustParseDate("2024-05-03"))
	if err != nil || before == nil || before.AnalysisDate.String() != "2024-05-01" {
		t.Fatalf("RankingBefore(05-03) = %+v, %v", before, err)
	}
	none, err := st.RankingBefore(ctx, "PODCAST", report.MustParseDate("2024-05-01"))
	if err != nil || none != nil {
		t.Fatalf("RankingBefore(05-01) = %+v, %v", none, err)
	}
	at, err := st.LoadRankingAt(ctx, key("PODCAST", "2024-05-02"))
	if err != nil || at != nil {
		t.Fatalf("LoadRankingAt(05-02) = %+v, %v", at, err)
	}

	replaced := ranking("2024-05-01", "z")
	if err := st.SaveRanking(ctx, "PODCAST", replaced.AnalysisDate, replaced); err != nil {
		t.Fatalf("SaveRanking overwrite: %v", err)
	}
	first, err := st.LoadRankingAt(ctx, key("PODCAST", "2024-05-01"))
	if err != nil || first == nil || first.Shorts[0].VideoID != "z" {
		t.Fatalf("expected overwritten 05-01 snapshot, got %+v, %v", first, err)
	}
	latest, err = st.LoadRanking(ctx, "PODCAST")
	if err != nil || latest.Shorts[0].VideoID != "b" {
		t.Fatalf("overwriting 05-01 must not touch 05-03, got %+v, %v", latest, err)
	}
}

func testCategories(t *testing.T, st store.Store) {
	ctx := context.Background()
	mustSaveSnapshot(t, st, key("PODCAST", "2024-05-01"), report.RawRow{"video_id": "a"})
	mustSaveSnapshot(t, st, key("GAMING", "2024-05-01"), report.RawRow{"video_id": "b"})

	got, err := st.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if want := []report.Category{"GAMING", "PODCAST"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
	other, err := st.LoadSnapshot(ctx, key("GAMING", "2024-05-01"))
	if err != nil || other.Rows[0]["video_id"] != "b" {
		t.Fatalf("categories must be isolated, got %+v, %v", other, err)
	}
}

func testLockExcludes(t *testing.T, st store.Store) {
	unlock, err := st.Lock(context.Background(), "PODCAST")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := st.Lock(ctx, "PODCAST"); !errors.Is(err, faults.ErrLocked) {
		t.Fatalf("expected locked error, got %v", err)
	}

	other, err := st.Lock(context.Background(), "GAMING")
	if err != nil {
		t.Fatalf("other category must lock independently: %v", err)
	}
	if err := other(); err != nil {
		t.Fatalf("unlock GAMING: %v", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	again, err := st.Lock(context.Background(), "PODCAST")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	_ = again()
}
