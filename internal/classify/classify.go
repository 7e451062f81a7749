package classify

import (
	"regexp"
	"strings"

	"viewpulse/internal/report"
)

// Signal names the rule that decided a classification.
type Signal string

const (
	SignalTypeHint Signal = "type_hint"
	SignalDuration Signal = "duration"
	SignalText     Signal = "text_hint"
	SignalDefault  Signal = "default"
)

// Decision is a classification with the rule that produced it.
type Decision struct {
	Short  bool
	Signal Signal
}

var shortsTextPattern = regexp.MustCompile(`(?i)(?:#shorts?\b|\bshorts\b)`)

// Classifier applies the short/long precedence with one duration cutoff.
type Classifier struct {
	thresholdSeconds int
}

// New returns a classifier that treats known durations at or below
// thresholdSeconds as short-form.
func New(thresholdSeconds int) *Classifier {
	return &Classifier{thresholdSeconds: thresholdSeconds}
}

// ThresholdSeconds returns the configured cutoff.
func (c *Classifier) ThresholdSeconds() int {
	return c.thresholdSeconds
}

// Classify reports whether record is short-form.
func (c *Classifier) Classify(record report.VideoRecord) bool {
	return c.Decide(record).Short
}

// Decide applies the precedence rules and reports which one matched.
func (c *Classifier) Decide(record report.VideoRecord) Decision {
	if short, ok := typeHint(record.TypeHint); ok {
		return Decision{Short: short, Signal: SignalTypeHint}
	}
	if short, ok := c.byDuration(record.DurationSeconds); ok {
		return Decision{Short: short, Signal: SignalDuration}
	}
	if hasShortsText(record.Title, record.Tags, record.Description) {
		return Decision{Short: true, Signal: SignalText}
	}
	return Decision{Short: false, Signal: SignalDefault}
}

// ByDuration classifies from a duration alone. It reports false in the second
// return value when the duration is unknown.
func (c *Classifier) ByDuration(seconds *int) (bool, bool) {
	return c.byDuration(seconds)
}

// A zero duration is what live streams and premieres report, so it counts as
// unknown rather than short.
func (c *Classifier) byDuration(seconds *int) (bool, bool) {
	if seconds == nil || *seconds <= 0 {
		return false, false
	}
	return *seconds <= c.thresholdSeconds, true
}

func typeHint(value string) (bool, bool) {
	lowered := strings.ToLower(strings.TrimSpace(value))
	switch {
	case lowered == "":
		return false, false
	case strings.Contains(lowered, "short"):
		return true, true
	case strings.Contains(lowered, "long"):
		return false, true
	default:
		return false, false
	}
}

func hasShortsText(parts ...string) bool {
	return shortsTextPattern.MatchString(strings.Join(parts, " "))
}
