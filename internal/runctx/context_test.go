package runctx_test

import (
	"context"
	"testing"

	"viewpulse/internal/runctx"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = runctx.WithCategory(ctx, "PODCAST")
	ctx = runctx.WithDate(ctx, "2024-05-02")
	ctx = runctx.WithRunID(ctx, "run-1")
	ctx = runctx.WithStage(ctx, "growth")

	if v, ok := runctx.CategoryFromContext(ctx); !ok || v != "PODCAST" {
		t.Fatalf("unexpected category %q (%v)", v, ok)
	}
	if v, ok := runctx.DateFromContext(ctx); !ok || v != "2024-05-02" {
		t.Fatalf("unexpected date %q (%v)", v, ok)
	}
	if v, ok := runctx.RunIDFromContext(ctx); !ok || v != "run-1" {
		t.Fatalf("unexpected run id %q (%v)", v, ok)
	}
	if v, ok := runctx.StageFromContext(ctx); !ok || v != "growth" {
		t.Fatalf("unexpected stage %q (%v)", v, ok)
	}
}

func TestEmptyValuesAreIgnored(t *testing.T) {
	ctx := runctx.WithCategory(context.Background(), "")
	if _, ok := runctx.CategoryFromContext(ctx); ok {
		t.Fatal("expected empty category to be ignored")
	}
	if _, ok := runctx.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id on bare context")
	}
}
