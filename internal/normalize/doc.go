// Package normalize maps heterogeneous collector CSV rows onto the canonical
// report.VideoRecord shape.
//
// Report generation changed column names over the system's lifetime, so the
// normalizer resolves each canonical field from an ordered alias list rather
// than from versioned schemas. Keys are normalized first (trimmed, BOM
// stripped, lower-cased, spaces and hyphens folded to underscores). The first
// alias present with a non-blank value wins; values from different aliases are
// never merged.
//
// Per-row problems never abort a snapshot: an unparsable duration becomes
// absent, an unparsable view count becomes zero, and a row without a video id
// is dropped with a typed NormalizationError.
package normalize
