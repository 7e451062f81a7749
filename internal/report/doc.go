// Package report defines the canonical records that flow through the
// viewpulse pipeline.
//
// Raw collector rows enter as RawRow values keyed by (Category, Date). The
// normalizer turns them into VideoRecord values, the growth engine derives
// GrowthRecord values, and the ranking aggregator produces RankingSnapshot
// values that carry multi-day position history. Every persisted artifact is
// addressed by a structured Key rather than an encoded file name so storage
// backends stay free to pick their own layout.
package report
