package stats_test

import (
	"fmt"
	"testing"

	"viewpulse/internal/report"
	"viewpulse/internal/stats"
)

func TestComputeTotals(t *testing.T) {
	date := report.MustParseDate("2024-05-02")
	records := []report.GrowthRecord{
		{VideoID: "a", Channel: "alpha", ViewsToday: 100, ViewsYesterday: report.Int64(80), Delta: report.Int64(20), IsShort: true},
		{VideoID: "b", Channel: "alpha", ViewsToday: 50, ViewsYesterday: report.Int64(60), Delta: report.Int64(-10)},
		{VideoID: "c", Channel: "beta", ViewsToday: 300},
	}

	got := stats.Compute("PODCAST", date, records)
	if got.TotalVideos != 3 || got.ShortsCount != 1 || got.LongformCount != 2 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if got.NewVideos != 1 {
		t.Fatalf("expected 1 new video, got %d", got.NewVideos)
	}
	if got.TotalViews != 450 || got.TotalDelta != 10 {
		t.Fatalf("unexpected totals views=%d delta=%d", got.TotalViews, got.TotalDelta)
	}
	if len(got.TopChannels) != 2 || got.TopChannels[0].Channel != "beta" || got.TopChannels[1].Videos != 2 {
		t.Fatalf("unexpected top channels %+v", got.TopChannels)
	}
	if got.Key() != (report.Key{Category: "PODCAST", Date: date}) {
		t.Fatalf("unexpected key %v", got.Key())
	}
}

func TestComputeLimitsTopChannels(t *testing.T) {
	var records []report.GrowthRecord
	for i := 0; i < 8; i++ {
		records = append(records, report.GrowthRecord{
			VideoID:    fmt.Sprintf("v%d", i),
			Channel:    fmt.Sprintf("ch%d", i%7),
			ViewsToday: 10,
		})
	}

	got := stats.Compute("PODCAST", report.MustParseDate("2024-05-02"), records)
	if len(got.TopChannels) != stats.TopChannels {
		t.Fatalf("expected %d channels, got %d", stats.TopChannels, len(got.TopChannels))
	}
	if got.TopChannels[0].Channel != "ch0" || got.TopChannels[0].Views != 20 {
		t.Fatalf("expected ch0 first with 20 views, got %+v", got.TopChannels[0])
	}
	if got.TopChannels[1].Channel != "ch1" {
		t.Fatalf("expected ties broken by name, got %+v", got.TopChannels[1])
	}
}

func TestComputeEmpty(t *testing.T) {
	got := stats.Compute("PODCAST", report.MustParseDate("2024-05-02"), nil)
	if got.TotalVideos != 0 || got.TopChannels == nil {
		t.Fatalf("unexpected empty stats %+v", got)
	}
}
