package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"viewpulse/internal/faults"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
	"viewpulse/internal/store/filestore"
	"viewpulse/internal/store/storetest"
)

func openStore(t *testing.T) *filestore.Store {
	t.Helper()
	st, err := filestore.Open(t.TempDir(), time.Second)
	if err != nil {
		t.Fatalf("filestore.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return openStore(t) })
}

func TestLayoutUsesCategoryDirectories(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	key := report.Key{Category: "PODCAST", Date: report.MustParseDate("2024-05-02")}
	if err := st.SaveSnapshot(ctx, report.RawSnapshot{Key: key, Rows: []report.RawRow{{"video_id": "a"}}}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := st.SaveGrowth(ctx, report.GrowthReport{Category: key.Category, Date: key.Date}); err != nil {
		t.Fatalf("SaveGrowth: %v", err)
	}

	for _, rel := range []string{"PODCAST/reports/2024-05-02.csv", "PODCAST/growth/2024-05-02.json"} {
		if _, err := os.Stat(filepath.Join(st.Root(), rel)); err != nil {
			t.Fatalf("expected %s: %v", rel, err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(st.Root(), "PODCAST", "growth"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestIgnoresForeignFiles(t *testing.T) {
	st := openStore(t)
	dir := filepath.Join(st.Root(), "PODCAST", "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"notes.txt", "latest.csv", "2024-05-01.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("video_id\na\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	dates, err := st.SnapshotDates(context.Background(), "PODCAST")
	if err != nil {
		t.Fatalf("SnapshotDates: %v", err)
	}
	if len(dates) != 1 || dates[0].String() != "2024-05-01" {
		t.Fatalf("expected only the dated snapshot, got %v", dates)
	}
}

func TestCorruptRankingIsStorageError(t *testing.T) {
	st := openStore(t)
	path := filepath.Join(st.Root(), "PODCAST", "rankings", "2024-05-01.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := st.RankingBefore(context.Background(), "PODCAST", report.MustParseDate("2024-05-02"))
	if !errors.Is(err, store.ErrCorrupt) || !errors.Is(err, faults.ErrStorage) {
		t.Fatalf("expected corrupt storage error, got %v", err)
	}
}

func TestOpenRequiresRoot(t *testing.T) {
	if _, err := filestore.Open("  ", 0); err == nil {
		t.Fatal("expected error for blank root")
	}
}
