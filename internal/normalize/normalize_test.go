package normalize_test

import (
	"errors"
	"testing"

	"viewpulse/internal/normalize"
	"viewpulse/internal/report"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Video ID", "video_id"},
		{"  Channel-Title ", "channel_title"},
		{"\uFEFFvideo_id", "video_id"},
		{"\uFEFF\uFEFF Views Today", "views_today"},
		{"DURATION_ISO", "duration_iso"},
		{"", ""},
	}
	for _, tc := range cases {
		got := normalize.NormalizeKey(tc.in)
		if got != tc.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeKeyIsIdempotent(t *testing.T) {
	inputs := []string{
		"Video ID", " \uFEFF views-today ", "\uFEFF  \uFEFFx", "a\tb", "Mixed-Case Key-Name",
		"__already_normal__", "-", " - ", "ÓPIS Filmu",
	}
	for _, in := range inputs {
		once := normalize.NormalizeKey(in)
		if twice := normalize.NormalizeKey(once); twice != once {
			t.Fatalf("NormalizeKey not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PT1H2M3S", 3723, true},
		{"PT45S", 45, true},
		{"PT1M5S", 65, true},
		{"PT2H", 7200, true},
		{"pt10m", 600, true},
		{"PT", 0, true},
		{"125", 125, true},
		{" 60 ", 60, true},
		{"P1D", 0, false},
		{"1:05", 0, false},
		{"PT1H2M3S extra", 0, false},
		{"-5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"PT9223372036854775807H", 0, false},
		{"PT153722867280912931M", 0, false},
		{"PT1M9223372036854775807S", 0, false},
		{"PT99999999999999999999S", 0, false},
	}
	for _, tc := range cases {
		got, ok := normalize.ParseDuration(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseDuration(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMapRecordAliasPriority(t *testing.T) {
	var n normalize.Normalizer
	record, err := n.MapRecord(report.RawRow{
		"Video ID":     "abc",
		"id":           "ignored",
		"Video Title":  "fallback title",
		"Title":        "primary title",
		"Channel Name": "lower priority",
		"channelTitle": "Kanał",
		"views_today":  "50",
		"View Count":   "999",
		"views":        "1234",
		"Duration":     "PT1M",
		"Description":  "desc",
		"tags":         "a|b",
		"Video-Type":   "Shorts",
		"Published At": "2024-05-01",
	})
	if err != nil {
		t.Fatalf("MapRecord returned error: %v", err)
	}
	if record.VideoID != "abc" {
		t.Fatalf("expected video_id alias to win, got %q", record.VideoID)
	}
	if record.Title != "primary title" {
		t.Fatalf("expected title alias to win, got %q", record.Title)
	}
	if record.Channel != "Kanał" {
		t.Fatalf("expected channeltitle to outrank channel_name, got %q", record.Channel)
	}
	if record.Views != 50 {
		t.Fatalf("expected same-day views to win, got %d", record.Views)
	}
	if record.DurationSeconds == nil || *record.DurationSeconds != 60 {
		t.Fatalf("expected 60s duration, got %v", record.DurationSeconds)
	}
	if record.TypeHint != "Shorts" || record.Tags != "a|b" || record.Description != "desc" || record.PublishedAt != "2024-05-01" {
		t.Fatalf("unexpected optional fields: %+v", record)
	}
}

func TestMapRecordAliasPriorityTable(t *testing.T) {
	var n normalize.Normalizer
	cases := []struct {
		name string
		row  report.RawRow
		want int64
	}{
		{"today beats total", report.RawRow{"id": "v", "views_today": "50", "view_count": "999"}, 50},
		{"view_count beats views", report.RawRow{"id": "v", "view_count": "7", "views": "8"}, 7},
		{"blank alias falls through", report.RawRow{"id": "v", "views_today": " ", "views": "8"}, 8},
		{"thousands separators", report.RawRow{"id": "v", "views": "1,234,567"}, 1234567},
		{"spreadsheet float", report.RawRow{"id": "v", "views": "42.0"}, 42},
		{"absent", report.RawRow{"id": "v"}, 0},
		{"malformed", report.RawRow{"id": "v", "views": "lots"}, 0},
	}
	for _, tc := range cases {
		record, err := n.MapRecord(tc.row)
		if err != nil {
			t.Fatalf("%s: MapRecord returned error: %v", tc.name, err)
		}
		if record.Views != tc.want {
			t.Fatalf("%s: expected views %d, got %d", tc.name, tc.want, record.Views)
		}
	}
}

func TestMapRecordDurationSources(t *testing.T) {
	var n normalize.Normalizer
	cases := []struct {
		name string
		row  report.RawRow
		want *int
	}{
		{"plain seconds column", report.RawRow{"id": "v", "duration_seconds": "45"}, report.Int(45)},
		{"seconds column wins over iso", report.RawRow{"id": "v", "duration_seconds": "45", "duration": "PT10M"}, report.Int(45)},
		{"iso duration", report.RawRow{"id": "v", "duration_iso": "PT1H2M3S"}, report.Int(3723)},
		{"integer in duration column", report.RawRow{"id": "v", "duration": "300"}, report.Int(300)},
		{"iso in seconds column is rejected", report.RawRow{"id": "v", "duration_seconds": "PT45S"}, nil},
		{"garbage", report.RawRow{"id": "v", "duration": "forever"}, nil},
		{"absent", report.RawRow{"id": "v"}, nil},
	}
	for _, tc := range cases {
		record, err := n.MapRecord(tc.row)
		if err != nil {
			t.Fatalf("%s: MapRecord returned error: %v", tc.name, err)
		}
		switch {
		case tc.want == nil && record.DurationSeconds != nil:
			t.Fatalf("%s: expected no duration, got %d", tc.name, *record.DurationSeconds)
		case tc.want != nil && (record.DurationSeconds == nil || *record.DurationSeconds != *tc.want):
			t.Fatalf("%s: expected %d, got %v", tc.name, *tc.want, record.DurationSeconds)
		}
	}
}

func TestMapRecordDefaultsChannel(t *testing.T) {
	record, err := normalize.Normalizer{}.MapRecord(report.RawRow{"videoid": "x"})
	if err != nil {
		t.Fatalf("MapRecord returned error: %v", err)
	}
	if record.Channel != report.UnknownChannel {
		t.Fatalf("expected placeholder channel, got %q", record.Channel)
	}

	custom := normalize.Normalizer{ChannelPlaceholder: "n/a"}
	record, _ = custom.MapRecord(report.RawRow{"videoid": "x"})
	if record.Channel != "n/a" {
		t.Fatalf("expected custom placeholder, got %q", record.Channel)
	}
}

func TestMapRecordMissingIDReturnsTypedError(t *testing.T) {
	_, err := normalize.Normalizer{}.MapRecord(report.RawRow{"title": "orphan", "views": "10"})
	var nerr *normalize.NormalizationError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NormalizationError, got %v", err)
	}
	if nerr.Field != "video_id" {
		t.Fatalf("unexpected field %q", nerr.Field)
	}
}

func TestNormalizeDropsAndDeduplicates(t *testing.T) {
	rows := []report.RawRow{
		{"video_id": "a", "views": "1"},
		{"title": "no id"},
		{"video_id": "b", "views": "2", "duration": "bad"},
		{"video_id": "a", "views": "3", "title": "newer"},
		{"video_id": "c", "views": "oops"},
	}
	result := normalize.Normalizer{}.Normalize(rows)

	if result.Dropped != 1 || result.Duplicates != 1 {
		t.Fatalf("unexpected counters: dropped=%d duplicates=%d", result.Dropped, result.Duplicates)
	}
	if result.MalformedDurations != 1 || result.MalformedViews != 1 {
		t.Fatalf("unexpected malformed counters: %+v", result)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}
	first := result.Records[0]
	if first.VideoID != "a" || first.Views != 3 || first.Title != "newer" {
		t.Fatalf("expected last write to win at first position, got %+v", first)
	}
	if result.Records[1].VideoID != "b" || result.Records[2].VideoID != "c" {
		t.Fatalf("unexpected order: %+v", result.Records)
	}
}

func TestNormalizeFoldedHeaderCollisionIsDeterministic(t *testing.T) {
	row := report.RawRow{"Video ID": "first", "video-id": "second", "video_id": ""}
	for i := 0; i < 20; i++ {
		record, err := normalize.Normalizer{}.MapRecord(row)
		if err != nil {
			t.Fatalf("MapRecord returned error: %v", err)
		}
		if record.VideoID != "first" {
			t.Fatalf("expected sorted-first header to win, got %q", record.VideoID)
		}
	}
}
