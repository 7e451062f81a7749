package sqlitestore_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"viewpulse/internal/faults"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
	"viewpulse/internal/store/sqlitestore"
	"viewpulse/internal/store/storetest"
)

func openAt(t *testing.T, path string) *sqlitestore.Store {
	t.Helper()
	st, err := sqlitestore.Open(path, time.Second)
	if err != nil {
		t.Fatalf("sqlitestore.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openAt(t, filepath.Join(t.TempDir(), "viewpulse.db"))
	})
}

func TestReopenKeepsDataAndSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewpulse.db")
	ctx := context.Background()
	key := report.Key{Category: "PODCAST", Date: report.MustParseDate("2024-05-01")}

	first := openAt(t, path)
	if err := first.SaveSnapshot(ctx, report.RawSnapshot{Key: key, Rows: []report.RawRow{{"video_id": "a"}}}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openAt(t, path)
	got, err := second.LoadSnapshot(ctx, key)
	if err != nil || got == nil || got.Rows[0]["video_id"] != "a" {
		t.Fatalf("expected snapshot after reopen, got %+v, %v", got, err)
	}
}

func TestCorruptPayloadIsStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewpulse.db")
	st := openAt(t, path)
	ctx := context.Background()
	key := report.Key{Category: "PODCAST", Date: report.MustParseDate("2024-05-01")}
	if err := st.SaveGrowth(ctx, report.GrowthReport{Category: key.Category, Date: key.Date}); err != nil {
		t.Fatalf("SaveGrowth: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`UPDATE growth_reports SET payload_json = '{broken' WHERE category = 'PODCAST'`); err != nil {
		t.Fatalf("corrupt payload: %v", err)
	}

	_, err = st.LoadGrowth(ctx, key)
	if !errors.Is(err, store.ErrCorrupt) || !errors.Is(err, faults.ErrStorage) {
		t.Fatalf("expected corrupt storage error, got %v", err)
	}
}

func TestSnapshotOverwriteOnSecondConnection(t *testing.T) {
	st := openAt(t, filepath.Join(t.TempDir(), "viewpulse.db"))
	ctx := context.Background()
	key := report.Key{Category: "PODCAST", Date: report.MustParseDate("2024-05-01")}

	held, err := st.DB().Conn(ctx)
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	defer held.Close()

	first := report.RawSnapshot{Key: key, Rows: []report.RawRow{{"video_id": "a"}, {"video_id": "b"}}}
	if err := st.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("first SaveSnapshot: %v", err)
	}
	second := report.RawSnapshot{Key: key, Rows: []report.RawRow{{"video_id": "c"}}}
	if err := st.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("second SaveSnapshot: %v", err)
	}

	got, err := st.LoadSnapshot(ctx, key)
	if err != nil || got == nil {
		t.Fatalf("LoadSnapshot: %+v, %v", got, err)
	}
	if len(got.Rows) != 1 || got.Rows[0]["video_id"] != "c" {
		t.Fatalf("expected overwritten snapshot, got %+v", got.Rows)
	}

	var foreignKeys, busyTimeout int
	conn, err := st.DB().Conn(ctx)
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	defer conn.Close()
	if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("read foreign_keys: %v", err)
	}
	if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("read busy_timeout: %v", err)
	}
	if foreignKeys != 1 || busyTimeout != 5000 {
		t.Fatalf("expected pragmas on every connection, got foreign_keys=%d busy_timeout=%d", foreignKeys, busyTimeout)
	}
}
