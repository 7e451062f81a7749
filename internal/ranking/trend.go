package ranking

import (
	"sort"

	"viewpulse/internal/report"
)

// Trend describes how a video's rank moved between its two latest entries.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Symbol is a one-character marker for tables.
func (t Trend) Symbol() string {
	switch t {
	case TrendRising:
		return "↑"
	case TrendFalling:
		return "↓"
	case TrendStable:
		return "="
	}
	return ""
}

// TrendOf compares the two most recent history entries. A lower rank
// position is better. It reports false when fewer than two entries exist.
func TrendOf(history []report.HistoryEntry) (Trend, bool) {
	if len(history) < 2 {
		return "", false
	}
	ordered := append([]report.HistoryEntry(nil), history...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })
	prev := ordered[len(ordered)-2].RankPosition
	last := ordered[len(ordered)-1].RankPosition
	switch {
	case last < prev:
		return TrendRising, true
	case last > prev:
		return TrendFalling, true
	default:
		return TrendStable, true
	}
}

// TrendFor looks up a video's trend in a snapshot's retained history.
func TrendFor(snapshot *report.RankingSnapshot, videoID string) (Trend, bool) {
	if snapshot == nil {
		return "", false
	}
	return TrendOf(snapshot.RetainedHistory[videoID])
}
