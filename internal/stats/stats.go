// Package stats summarizes a category's growth records for one day.
package stats

import (
	"sort"

	"viewpulse/internal/report"
)

// TopChannels is how many channels the summary lists.
const TopChannels = 5

// Compute aggregates records. Short and long counts follow each record's
// is_short flag, so they match what the ranking stage sees.
func Compute(category report.Category, date report.Date, records []report.GrowthRecord) report.CategoryStats {
	out := report.CategoryStats{
		Category:    category,
		Date:        date,
		TotalVideos: len(records),
		TopChannels: []report.ChannelViews{},
	}
	channels := map[string]*report.ChannelViews{}
	for _, record := range records {
		if record.IsShort {
			out.ShortsCount++
		} else {
			out.LongformCount++
		}
		if record.Delta == nil {
			out.NewVideos++
		} else {
			out.TotalDelta += *record.Delta
		}
		out.TotalViews += record.ViewsToday

		entry, ok := channels[record.Channel]
		if !ok {
			entry = &report.ChannelViews{Channel: record.Channel}
			channels[record.Channel] = entry
		}
		entry.Videos++
		entry.Views += record.ViewsToday
	}

	ranked := make([]report.ChannelViews, 0, len(channels))
	for _, entry := range channels {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return ranked[i].Channel < ranked[j].Channel
	})
	if len(ranked) > TopChannels {
		ranked = ranked[:TopChannels]
	}
	out.TopChannels = append(out.TopChannels, ranked...)
	return out
}
