// Package ranking maintains each category's top-K short-form and long-form
// buckets together with a bounded per-video position history.
//
// Every update fully recomputes the day's buckets from that day's growth
// records plus the entries still eligible from the most recent earlier
// ranking, so re-running a date with the same inputs reproduces the same
// snapshot. History older than the retention window is pruned, not marked.
package ranking
