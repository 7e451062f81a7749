package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

// Payload tables share one shape: (category, date, payload_json, updated_at).
const (
	tableGrowth   = "growth_reports"
	tableStats    = "category_stats"
	tableRankings = "rankings"
)

// Store is the SQLite backend.
type Store struct {
	db     *sql.DB
	path   string
	locker *store.CategoryLocker
}

var _ store.Store = (*Store)(nil)

// Open connects to (creating if needed) the database at path and applies
// migrations. lockTimeout bounds Lock; zero waits on the context.
func Open(path string, lockTimeout time.Duration) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlitestore: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, store.Fail("open", "database", report.Key{}, err)
	}

	db, err := sql.Open("sqlite", dataSourceName(path))
	if err != nil {
		return nil, store.Fail("open", "database", report.Key{}, err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, store.Fail("open", "database", report.Key{}, fmt.Errorf("connect: %w", err))
	}

	s := &Store{
		db:     db,
		path:   path,
		locker: store.NewCategoryLocker(path+".locks", lockTimeout),
	}
	if err := s.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, store.Fail("open", "database", report.Key{}, err)
	}
	return s, nil
}

// connectionPragmas are applied by the driver to every pooled connection.
var connectionPragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

func dataSourceName(path string) string {
	query := make(url.Values)
	for _, pragma := range connectionPragmas {
		query.Add("_pragma", pragma)
	}
	return "file:" + path + "?" + query.Encode()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveSnapshot(ctx context.Context, snapshot report.RawSnapshot) error {
	key := snapshot.Key
	encoded := make([]string, len(snapshot.Rows))
	for i, row := range snapshot.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return store.Fail("write", "snapshot", key, err)
		}
		encoded[i] = string(data)
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			_ = tx.Rollback()
		}()
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_rows WHERE category = ? AND date = ?`, key.Category.String(), key.Date.String()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE category = ? AND date = ?`, key.Category.String(), key.Date.String()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshots (category, date, imported_at) VALUES (?, ?, ?)`,
			key.Category.String(), key.Date.String(), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_rows (category, date, position, row_json) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, row := range encoded {
			if _, err := stmt.ExecContext(ctx, key.Category.String(), key.Date.String(), i, row); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return store.Fail("write", "snapshot", key, err)
	}
	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context, key report.Key) (*report.RawSnapshot, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM snapshots WHERE category = ? AND date = ?`,
		key.Category.String(), key.Date.String()).Scan(&count); err != nil {
		return nil, store.Fail("read", "snapshot", key, err)
	}
	if count == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT row_json FROM snapshot_rows WHERE category = ? AND date = ? ORDER BY position`,
		key.Category.String(), key.Date.String())
	if err != nil {
		return nil, store.Fail("read", "snapshot", key, err)
	}
	defer rows.Close()

	snapshot := &report.RawSnapshot{Key: key, Rows: []report.RawRow{}}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, store.Fail("read", "snapshot", key, err)
		}
		var row report.RawRow
		if err := json.Unmarshal([]byte(payload), &row); err != nil {
			return nil, store.Corrupt("snapshot", key, err)
		}
		snapshot.Rows = append(snapshot.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail("read", "snapshot", key, err)
	}
	return snapshot, nil
}

func (s *Store) SnapshotDates(ctx context.Context, category report.Category) ([]report.Date, error) {
	return s.dates(ctx, "snapshots", "snapshot", category)
}

func (s *Store) PreviousSnapshotDate(ctx context.Context, category report.Category, before report.Date) (report.Date, bool, error) {
	return s.latestBefore(ctx, "snapshots", "snapshot", category, before)
}

func (s *Store) SaveGrowth(ctx context.Context, growth report.GrowthReport) error {
	return s.savePayload(ctx, tableGrowth, "growth", growth.Key(), growth)
}

func (s *Store) LoadGrowth(ctx context.Context, key report.Key) (*report.GrowthReport, error) {
	var growth report.GrowthReport
	found, err := s.loadPayload(ctx, tableGrowth, "growth", key, &growth)
	if err != nil || !found {
		return nil, err
	}
	return &growth, nil
}

func (s *Store) SaveStats(ctx context.Context, stats report.CategoryStats) error {
	return s.savePayload(ctx, tableStats, "stats", stats.Key(), stats)
}

func (s *Store) LoadStats(ctx context.Context, key report.Key) (*report.CategoryStats, error) {
	var stats report.CategoryStats
	found, err := s.loadPayload(ctx, tableStats, "stats", key, &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

func (s *Store) SaveRanking(ctx context.Context, category report.Category, date report.Date, snapshot report.RankingSnapshot) error {
	return s.savePayload(ctx, tableRankings, "ranking", report.Key{Category: category, Date: date}, snapshot)
}

func (s *Store) LoadRankingAt(ctx context.Context, key report.Key) (*report.RankingSnapshot, error) {
	var snapshot report.RankingSnapshot
	found, err := s.loadPayload(ctx, tableRankings, "ranking", key, &snapshot)
	if err != nil || !found {
		return nil, err
	}
	return &snapshot, nil
}

func (s *Store) LoadRanking(ctx context.Context, category report.Category) (*report.RankingSnapshot, error) {
	dates, err := s.dates(ctx, tableRankings, "ranking", category)
	if err != nil || len(dates) == 0 {
		return nil, err
	}
	return s.LoadRankingAt(ctx, report.Key{Category: category, Date: dates[len(dates)-1]})
}

func (s *Store) RankingBefore(ctx context.Context, category report.Category, date report.Date) (*report.RankingSnapshot, error) {
	prev, ok, err := s.latestBefore(ctx, tableRankings, "ranking", category, date)
	if err != nil || !ok {
		return nil, err
	}
	return s.LoadRankingAt(ctx, report.Key{Category: category, Date: prev})
}

func (s *Store) Categories(ctx context.Context) ([]report.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT category FROM snapshots
        UNION SELECT category FROM growth_reports
        UNION SELECT category FROM category_stats
        UNION SELECT category FROM rankings
        ORDER BY category`)
	if err != nil {
		return nil, store.Fail("list", "categories", report.Key{}, err)
	}
	defer rows.Close()

	var categories []report.Category
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, store.Fail("list", "categories", report.Key{}, err)
		}
		categories = append(categories, report.Category(name))
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail("list", "categories", report.Key{}, err)
	}
	return categories, nil
}

func (s *Store) Lock(ctx context.Context, category report.Category) (store.Unlock, error) {
	return s.locker.Lock(ctx, category)
}

func (s *Store) dates(ctx context.Context, table, artifact string, category report.Category) ([]report.Date, error) {
	key := report.Key{Category: category}
	rows, err := s.db.QueryContext(ctx, `SELECT date FROM `+table+` WHERE category = ? ORDER BY date`, category.String())
	if err != nil {
		return nil, store.Fail("list", artifact, key, err)
	}
	defer rows.Close()

	var dates []report.Date
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, store.Fail("list", artifact, key, err)
		}
		date, err := report.ParseDate(raw)
		if err != nil {
			return nil, store.Corrupt(artifact, key, err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail("list", artifact, key, err)
	}
	return dates, nil
}

// latestBefore relies on ISO dates sorting lexically.
func (s *Store) latestBefore(ctx context.Context, table, artifact string, category report.Category, before report.Date) (report.Date, bool, error) {
	key := report.Key{Category: category, Date: before}
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT date FROM `+table+` WHERE category = ? AND date < ? ORDER BY date DESC LIMIT 1`,
		category.String(), before.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return report.Date{}, false, nil
	}
	if err != nil {
		return report.Date{}, false, store.Fail("list", artifact, key, err)
	}
	date, err := report.ParseDate(raw)
	if err != nil {
		return report.Date{}, false, store.Corrupt(artifact, key, err)
	}
	return date, true, nil
}

func (s *Store) savePayload(ctx context.Context, table, artifact string, key report.Key, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return store.Fail("write", artifact, key, err)
	}
	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO `+table+` (category, date, payload_json, updated_at) VALUES (?, ?, ?, ?)
             ON CONFLICT (category, date) DO UPDATE SET payload_json = excluded.payload_json, updated_at = excluded.updated_at`,
			key.Category.String(), key.Date.String(), string(data), time.Now().UTC().Format(time.RFC3339Nano),
		)
		return execErr
	})
	if err != nil {
		return store.Fail("write", artifact, key, err)
	}
	return nil
}

func (s *Store) loadPayload(ctx context.Context, table, artifact string, key report.Key, target any) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload_json FROM `+table+` WHERE category = ? AND date = ?`,
		key.Category.String(), key.Date.String(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, store.Fail("read", artifact, key, err)
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return false, store.Corrupt(artifact, key, err)
	}
	return true, nil
}
