// Package growth computes day-over-day view deltas for one category.
//
// The engine normalizes the target day's raw snapshot, matches every video
// against the most recent earlier raw snapshot, classifies it short or long,
// and persists the result as a report.GrowthReport. Only raw collected
// snapshots serve as the comparison basis; previously computed growth output
// is never read back.
package growth
