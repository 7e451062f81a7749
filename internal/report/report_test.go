package report_test

import (
	"encoding/json"
	"strings"
	"testing"

	"viewpulse/internal/report"
)

func TestParseDate(t *testing.T) {
	date, err := report.ParseDate(" 2024-05-02 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if date.String() != "2024-05-02" {
		t.Fatalf("String = %q", date.String())
	}
	for _, bad := range []string{"", "2024/05/02", "02-05-2024", "2024-13-01"} {
		if _, err := report.ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	start := report.MustParseDate("2024-02-27")
	end := start.AddDays(3)
	if end.String() != "2024-03-01" {
		t.Fatalf("AddDays crossed leap day wrong: %s", end)
	}
	if end.DaysSince(start) != 3 || start.DaysSince(end) != -3 {
		t.Fatalf("DaysSince mismatch: %d / %d", end.DaysSince(start), start.DaysSince(end))
	}
	if !start.Before(end) || !end.After(start) || start.Equal(end) {
		t.Fatal("ordering helpers disagree")
	}
	if !(report.Date{}).IsZero() {
		t.Fatal("zero date must report IsZero")
	}
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Date report.Date  `json:"date"`
		Opt  *report.Date `json:"opt,omitempty"`
	}
	in := wrapper{Date: report.MustParseDate("2024-05-02")}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"date":"2024-05-02"}` {
		t.Fatalf("unexpected JSON %s", data)
	}
	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !out.Date.Equal(in.Date) || out.Opt != nil {
		t.Fatalf("round trip mismatch %+v", out)
	}
	if err := json.Unmarshal([]byte(`{"date":"yesterday"}`), &out); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    report.Category
		wantErr bool
	}{
		{in: "podcast", want: "PODCAST"},
		{in: "  true crime ", want: "TRUE_CRIME"},
		{in: "motoryzacja", want: "MOTORYZACJA"},
		{in: "żużel", want: "ŻUŻEL"},
		{in: "", wantErr: true},
		{in: "../etc", wantErr: true},
		{in: "a/b", wantErr: true},
		{in: ".locks", wantErr: true},
	}
	for _, tt := range tests {
		got, err := report.ParseCategory(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseCategory(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseCategory(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestKeyString(t *testing.T) {
	key := report.Key{Category: "PODCAST", Date: report.MustParseDate("2024-05-02")}
	if key.String() != "PODCAST@2024-05-02" {
		t.Fatalf("Key.String = %q", key.String())
	}
}

func TestGrowthRecordJSONShape(t *testing.T) {
	record := report.GrowthRecord{VideoID: "v1", ViewsToday: 10}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"views_yesterday":null`, `"delta":null`, `"is_short":false`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %s in %s", want, data)
		}
	}
	if strings.Contains(string(data), "duration_seconds") {
		t.Fatalf("unknown duration should be omitted: %s", data)
	}
}

func TestSnapshotEntriesByBucket(t *testing.T) {
	snap := &report.RankingSnapshot{
		Shorts:   []report.RankingEntry{{RankPosition: 1}},
		Longform: []report.RankingEntry{{RankPosition: 1}, {RankPosition: 2}},
	}
	if len(snap.Entries(report.BucketShorts)) != 1 || len(snap.Entries(report.BucketLongform)) != 2 {
		t.Fatal("Entries returned the wrong bucket")
	}
	var nilSnap *report.RankingSnapshot
	if nilSnap.Entries(report.BucketShorts) != nil {
		t.Fatal("nil snapshot has no entries")
	}
	if report.BucketFor(true) != report.BucketShorts || report.BucketFor(false) != report.BucketLongform {
		t.Fatal("BucketFor mismatch")
	}
}
