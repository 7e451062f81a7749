package report

// UnknownChannel is recorded when a row carries no channel alias.
const UnknownChannel = "Unknown channel"

// RawRow is one collector CSV row keyed by its original header names.
type RawRow map[string]string

// RawSnapshot holds the unnormalized rows collected for one category and day.
type RawSnapshot struct {
	Key  Key
	Rows []RawRow
}

// VideoRecord is the canonical normalized view of one collected video.
type VideoRecord struct {
	VideoID         string
	Title           string
	Channel         string
	Views           int64
	DurationSeconds *int
	TypeHint        string
	Tags            string
	Description     string
	PublishedAt     string
}

// HasDuration reports whether the duration was parsed.
func (r VideoRecord) HasDuration() bool {
	return r.DurationSeconds != nil
}

// GrowthRecord is the day-over-day view delta for one video.
type GrowthRecord struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	ViewsToday      int64  `json:"views_today"`
	ViewsYesterday  *int64 `json:"views_yesterday"`
	Delta           *int64 `json:"delta"`
	IsShort         bool   `json:"is_short"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
}

// GrowthReport is the persisted growth artifact for one category and day.
type GrowthReport struct {
	Category   Category       `json:"category"`
	Date       Date           `json:"date"`
	ComparedTo *Date          `json:"compared_to,omitempty"`
	Growth     []GrowthRecord `json:"growth"`
}

func (g GrowthReport) Key() Key {
	return Key{Category: g.Category, Date: g.Date}
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
