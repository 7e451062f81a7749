package report

// Bucket names the short-form or long-form half of a ranking.
type Bucket string

const (
	BucketShorts   Bucket = "shorts"
	BucketLongform Bucket = "longform"
)

// BucketFor maps the is_short flag to its bucket.
func BucketFor(isShort bool) Bucket {
	if isShort {
		return BucketShorts
	}
	return BucketLongform
}

// RankingEntry is one video's position within a bucket on an analysis date.
type RankingEntry struct {
	GrowthRecord
	RankPosition int  `json:"rank_position"`
	LastSeen     Date `json:"last_seen"`
}

// HistoryEntry records where a video ranked on one date.
type HistoryEntry struct {
	Date         Date   `json:"date"`
	RankPosition int    `json:"rank_position"`
	Views        int64  `json:"views"`
	Bucket       Bucket `json:"bucket"`
}

// RankingHistory maps video IDs to date-ordered history entries.
type RankingHistory map[string][]HistoryEntry

// RankingSnapshot is the persisted top-K state for one category and date.
type RankingSnapshot struct {
	Category            Category       `json:"category"`
	AnalysisDate        Date           `json:"analysis_date"`
	Shorts              []RankingEntry `json:"shorts"`
	Longform            []RankingEntry `json:"longform"`
	TotalVideosAnalyzed int            `json:"total_videos_analyzed"`
	RetainedHistory     RankingHistory `json:"retained_history"`
}

// Entries returns the bucket's ranked entries.
func (s *RankingSnapshot) Entries(bucket Bucket) []RankingEntry {
	if s == nil {
		return nil
	}
	if bucket == BucketShorts {
		return s.Shorts
	}
	return s.Longform
}

// ChannelViews aggregates views per channel for the stats summary.
type ChannelViews struct {
	Channel string `json:"channel"`
	Videos  int    `json:"videos"`
	Views   int64  `json:"views"`
}

// CategoryStats summarizes one category's growth records for a day.
type CategoryStats struct {
	Category      Category       `json:"category"`
	Date          Date           `json:"date"`
	TotalVideos   int            `json:"total_videos"`
	ShortsCount   int            `json:"shorts_count"`
	LongformCount int            `json:"longform_count"`
	NewVideos     int            `json:"new_videos"`
	TotalViews    int64          `json:"total_views"`
	TotalDelta    int64          `json:"total_delta"`
	TopChannels   []ChannelViews `json:"top_channels"`
}

func (s CategoryStats) Key() Key {
	return Key{Category: s.Category, Date: s.Date}
}
