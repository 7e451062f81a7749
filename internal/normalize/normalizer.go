package normalize

import (
	"fmt"
	"sort"
	"strings"

	"viewpulse/internal/report"
)

// NormalizationError reports why a row could not become a VideoRecord.
type NormalizationError struct {
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Field, e.Reason)
}

// Normalizer converts raw collector rows into canonical records. The zero
// value is ready to use.
type Normalizer struct {
	// ChannelPlaceholder replaces a missing channel name. Defaults to
	// report.UnknownChannel.
	ChannelPlaceholder string
}

// Result is the outcome of normalizing one snapshot.
type Result struct {
	Records []report.VideoRecord
	// Dropped counts rows without a resolvable video id.
	Dropped int
	// Duplicates counts rows that replaced an earlier row with the same id.
	Duplicates int
	// MalformedViews counts rows whose view counter could not be parsed.
	MalformedViews int
	// MalformedDurations counts rows with a duration value that did not parse.
	MalformedDurations int
}

// MapRecord resolves one raw row. It returns a *NormalizationError when the row
// has no video id; every other field degrades instead of failing.
func (n Normalizer) MapRecord(row report.RawRow) (report.VideoRecord, error) {
	record, _, err := n.mapRecord(normalizeRow(row))
	return record, err
}

type fieldIssues struct {
	views    bool
	duration bool
}

func (n Normalizer) mapRecord(row normalizedRow) (report.VideoRecord, fieldIssues, error) {
	var issues fieldIssues

	id := row.value(videoIDAliases)
	if id == "" {
		return report.VideoRecord{}, issues, &NormalizationError{Field: "video_id", Reason: "no video_id, videoid, or id column"}
	}

	channel := row.value(channelAliases)
	if channel == "" {
		channel = n.ChannelPlaceholder
		if channel == "" {
			channel = report.UnknownChannel
		}
	}

	record := report.VideoRecord{
		VideoID:     id,
		Title:       row.value(titleAliases),
		Channel:     channel,
		TypeHint:    row.value(typeHintAliases),
		Tags:        row.value(tagsAliases),
		Description: row.value(descriptionAliases),
		PublishedAt: row.value(publishedAliases),
	}

	if _, raw, ok := row.lookup(viewsAliases); ok {
		views, parsed := parseCount(raw)
		if !parsed {
			issues.views = true
		}
		record.Views = views
	}

	record.DurationSeconds, issues.duration = resolveDuration(row)
	return record, issues, nil
}

// resolveDuration reads duration_seconds as a plain integer, falling back to
// the duration/duration_iso aliases which accept either form. The first alias
// present decides; a value that does not parse leaves the duration absent.
func resolveDuration(row normalizedRow) (*int, bool) {
	if _, raw, ok := row.lookup(durationSecAliases); ok {
		seconds, parsed := parseSeconds(raw)
		if !parsed {
			return nil, true
		}
		return &seconds, false
	}
	if _, raw, ok := row.lookup(durationAliases); ok {
		seconds, parsed := ParseDuration(raw)
		if !parsed {
			return nil, true
		}
		return &seconds, false
	}
	return nil, false
}

// Normalize maps every row of a snapshot. Rows without an id are dropped.
// Duplicate ids resolve last-write-wins: the record keeps the position of the
// first occurrence and the values of the last.
func (n Normalizer) Normalize(rows []report.RawRow) Result {
	var result Result
	index := make(map[string]int, len(rows))
	result.Records = make([]report.VideoRecord, 0, len(rows))

	for _, raw := range rows {
		record, issues, err := n.mapRecord(normalizeRow(raw))
		if err != nil {
			result.Dropped++
			continue
		}
		if issues.views {
			result.MalformedViews++
		}
		if issues.duration {
			result.MalformedDurations++
		}
		if pos, ok := index[record.VideoID]; ok {
			result.Records[pos] = record
			result.Duplicates++
			continue
		}
		index[record.VideoID] = len(result.Records)
		result.Records = append(result.Records, record)
	}
	return result
}

func normalizeRow(row report.RawRow) normalizedRow {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(normalizedRow, len(row))
	for _, key := range keys {
		normalized := NormalizeKey(key)
		if normalized == "" {
			continue
		}
		// Two raw headers can fold to the same key; the first non-blank one
		// in sorted header order wins.
		if existing, ok := out[normalized]; ok && strings.TrimSpace(existing) != "" {
			continue
		}
		out[normalized] = row[key]
	}
	return out
}
