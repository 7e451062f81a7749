package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"viewpulse/internal/faults"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

func TestStorageErrorClassification(t *testing.T) {
	key := report.Key{Category: "PODCAST", Date: report.MustParseDate("2024-05-02")}
	err := store.Corrupt("snapshot", key, errors.New("bad csv"))

	if !errors.Is(err, faults.ErrStorage) {
		t.Fatalf("expected storage marker, got %v", err)
	}
	if !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("expected corrupt sentinel, got %v", err)
	}
	if errors.Is(err, faults.ErrLocked) {
		t.Fatal("corrupt error must not match lock marker")
	}
	if !strings.Contains(err.Error(), "PODCAST@2024-05-02") {
		t.Fatalf("expected key in message, got %q", err.Error())
	}
	var serr *store.StorageError
	if !errors.As(err, &serr) || serr.Op != "read" {
		t.Fatalf("expected StorageError with read op, got %#v", serr)
	}
}

func TestCategoryLockerExcludesSecondHolder(t *testing.T) {
	locker := store.NewCategoryLocker(t.TempDir(), 150*time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "PODCAST")
	if err != nil {
		t.Fatalf("Lock returned error: %v", err)
	}

	_, err = locker.Lock(ctx, "PODCAST")
	if !errors.Is(err, store.ErrLockTimeout) || !errors.Is(err, faults.ErrLocked) {
		t.Fatalf("expected lock timeout, got %v", err)
	}

	other, err := locker.Lock(ctx, "MOTORYZACJA")
	if err != nil {
		t.Fatalf("expected independent category to lock, got %v", err)
	}
	if err := other(); err != nil {
		t.Fatalf("unlock other: %v", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	again, err := locker.Lock(ctx, "PODCAST")
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = again()
}

func TestCategoryLockerHonoursCancellation(t *testing.T) {
	locker := store.NewCategoryLocker(t.TempDir(), 0)
	unlock, err := locker.Lock(context.Background(), "PODCAST")
	if err != nil {
		t.Fatalf("Lock returned error: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locker.Lock(ctx, "PODCAST"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
