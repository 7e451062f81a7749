// Package runctx stamps pipeline runs with category, date and run identifiers
// so log lines emitted deep inside the core can be correlated.
package runctx

import "context"

type contextKey string

const (
	categoryKey contextKey = "category"
	dateKey     contextKey = "date"
	runIDKey    contextKey = "run_id"
	stageKey    contextKey = "stage"
)

// WithCategory annotates context with the category being processed.
func WithCategory(ctx context.Context, category string) context.Context {
	if category == "" {
		return ctx
	}
	return context.WithValue(ctx, categoryKey, category)
}

// CategoryFromContext returns the category if present.
func CategoryFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(categoryKey).(string)
	return v, ok && v != ""
}

// WithDate annotates context with the analysis date (YYYY-MM-DD).
func WithDate(ctx context.Context, date string) context.Context {
	if date == "" {
		return ctx
	}
	return context.WithValue(ctx, dateKey, date)
}

// DateFromContext returns the analysis date if present.
func DateFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(dateKey).(string)
	return v, ok && v != ""
}

// WithRunID annotates context with a correlation identifier for one run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(runIDKey).(string)
	return v, ok && v != ""
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(stageKey).(string)
	return v, ok && v != ""
}
