package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"viewpulse/internal/csvio"
	"viewpulse/internal/report"
	"viewpulse/internal/store"
)

const (
	reportsDir  = "reports"
	growthDir   = "growth"
	statsDir    = "stats"
	rankingsDir = "rankings"
	locksDir    = ".locks"
)

// Store is the filesystem backend.
type Store struct {
	root   string
	locker *store.CategoryLocker
}

var _ store.Store = (*Store)(nil)

// Open prepares root for use. lockTimeout bounds Lock; zero waits on the context.
func Open(root string, lockTimeout time.Duration) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("filestore: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, store.Fail("open", "store", report.Key{}, err)
	}
	return &Store{
		root:   root,
		locker: store.NewCategoryLocker(filepath.Join(root, locksDir), lockTimeout),
	}, nil
}

// Root returns the data directory.
func (s *Store) Root() string { return s.root }

func (s *Store) Close() error { return nil }

func (s *Store) path(category report.Category, kind string, date report.Date, ext string) string {
	return filepath.Join(s.root, category.String(), kind, date.String()+ext)
}

func (s *Store) LoadSnapshot(ctx context.Context, key report.Key) (*report.RawSnapshot, error) {
	file, err := os.Open(s.path(key.Category, reportsDir, key.Date, ".csv"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, store.Fail("read", "snapshot", key, err)
	}
	defer file.Close()

	rows, err := csvio.Decode(file)
	if err != nil {
		return nil, store.Corrupt("snapshot", key, err)
	}
	return &report.RawSnapshot{Key: key, Rows: rows}, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snapshot report.RawSnapshot) error {
	return s.write("snapshot", snapshot.Key, s.path(snapshot.Key.Category, reportsDir, snapshot.Key.Date, ".csv"), func(w io.Writer) error {
		return csvio.Encode(w, snapshot.Rows)
	})
}

func (s *Store) SnapshotDates(ctx context.Context, category report.Category) ([]report.Date, error) {
	return s.dates(category, reportsDir, ".csv")
}

func (s *Store) PreviousSnapshotDate(ctx context.Context, category report.Category, before report.Date) (report.Date, bool, error) {
	dates, err := s.dates(category, reportsDir, ".csv")
	if err != nil {
		return report.Date{}, false, err
	}
	prev, ok := latestBefore(dates, before)
	return prev, ok, nil
}

func (s *Store) SaveGrowth(ctx context.Context, growth report.GrowthReport) error {
	return s.writeJSON("growth", growth.Key(), s.path(growth.Category, growthDir, growth.Date, ".json"), growth)
}

func (s *Store) LoadGrowth(ctx context.Context, key report.Key) (*report.GrowthReport, error) {
	var growth report.GrowthReport
	found, err := s.readJSON("growth", key, s.path(key.Category, growthDir, key.Date, ".json"), &growth)
	if err != nil || !found {
		return nil, err
	}
	return &growth, nil
}

func (s *Store) SaveStats(ctx context.Context, stats report.CategoryStats) error {
	return s.writeJSON("stats", stats.Key(), s.path(stats.Category, statsDir, stats.Date, ".json"), stats)
}

func (s *Store) LoadStats(ctx context.Context, key report.Key) (*report.CategoryStats, error) {
	var stats report.CategoryStats
	found, err := s.readJSON("stats", key, s.path(key.Category, statsDir, key.Date, ".json"), &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

func (s *Store) SaveRanking(ctx context.Context, category report.Category, date report.Date, snapshot report.RankingSnapshot) error {
	key := report.Key{Category: category, Date: date}
	return s.writeJSON("ranking", key, s.path(category, rankingsDir, date, ".json"), snapshot)
}

func (s *Store) LoadRankingAt(ctx context.Context, key report.Key) (*report.RankingSnapshot, error) {
	var snapshot report.RankingSnapshot
	found, err := s.readJSON("ranking", key, s.path(key.Category, rankingsDir, key.Date, ".json"), &snapshot)
	if err != nil || !found {
		return nil, err
	}
	return &snapshot, nil
}

func (s *Store) LoadRanking(ctx context.Context, category report.Category) (*report.RankingSnapshot, error) {
	dates, err := s.dates(category, rankingsDir, ".json")
	if err != nil || len(dates) == 0 {
		return nil, err
	}
	return s.LoadRankingAt(ctx, report.Key{Category: category, Date: dates[len(dates)-1]})
}

func (s *Store) RankingBefore(ctx context.Context, category report.Category, date report.Date) (*report.RankingSnapshot, error) {
	dates, err := s.dates(category, rankingsDir, ".json")
	if err != nil {
		return nil, err
	}
	prev, ok := latestBefore(dates, date)
	if !ok {
		return nil, nil
	}
	return s.LoadRankingAt(ctx, report.Key{Category: category, Date: prev})
}

func (s *Store) Categories(ctx context.Context) ([]report.Category, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, store.Fail("list", "categories", report.Key{}, err)
	}
	var categories []report.Category
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		categories = append(categories, report.Category(entry.Name()))
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories, nil
}

func (s *Store) Lock(ctx context.Context, category report.Category) (store.Unlock, error) {
	return s.locker.Lock(ctx, category)
}

// dates lists the parseable <date><ext> names in a category subdirectory, oldest first.
func (s *Store) dates(category report.Category, kind, ext string) ([]report.Date, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, category.String(), kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, store.Fail("list", kind, report.Key{Category: category}, err)
	}
	dates := make([]report.Date, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		date, err := report.ParseDate(strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func latestBefore(sorted []report.Date, before report.Date) (report.Date, bool) {
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Before(before) {
			return sorted[i], true
		}
	}
	return report.Date{}, false
}

func (s *Store) write(artifact string, key report.Key, path string, encode func(io.Writer) error) error {
	writer, err := newAtomicWriter(path)
	if err != nil {
		return store.Fail("write", artifact, key, err)
	}
	if err := encode(writer); err != nil {
		_ = writer.abort()
		return store.Fail("write", artifact, key, err)
	}
	if err := writer.commit(); err != nil {
		return store.Fail("write", artifact, key, err)
	}
	return nil
}

func (s *Store) writeJSON(artifact string, key report.Key, path string, value any) error {
	return s.write(artifact, key, path, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	})
}

func (s *Store) readJSON(artifact string, key report.Key, path string, target any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, store.Fail("read", artifact, key, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, store.Corrupt(artifact, key, fmt.Errorf("decode %s: %w", filepath.Base(path), err))
	}
	return true, nil
}
