package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeClassifier()
	c.normalizeRanking()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("VIEWPULSE_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("VIEWPULSE_LOG_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.LogDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("VIEWPULSE_STORE_BACKEND"); ok && strings.TrimSpace(value) != "" {
		c.Store.Backend = value
	}
	if value, ok := os.LookupEnv("VIEWPULSE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}
	c.Store.SQLitePath = strings.TrimSpace(c.Store.SQLitePath)
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = filepath.Join(c.Paths.DataDir, defaultSQLiteName)
	}
	var err error
	if c.Store.SQLitePath, err = expandPath(c.Store.SQLitePath); err != nil {
		return fmt.Errorf("store.sqlite_path: %w", err)
	}
	if c.Store.LockTimeoutSeconds == 0 {
		c.Store.LockTimeoutSeconds = defaultLockTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeClassifier() {
	c.Classifier.GrowthThreshold = strings.ToLower(strings.TrimSpace(c.Classifier.GrowthThreshold))
	if c.Classifier.GrowthThreshold == "" {
		c.Classifier.GrowthThreshold = defaultGrowthThreshold
	}
}

func (c *Config) normalizeRanking() {
	c.Ranking.Threshold = strings.ToLower(strings.TrimSpace(c.Ranking.Threshold))
	if c.Ranking.Threshold == "" {
		c.Ranking.Threshold = defaultRankingThreshold
	}
}

func (c *Config) normalizePipeline() {
	if len(c.Pipeline.Categories) == 0 {
		return
	}
	categories := make([]string, 0, len(c.Pipeline.Categories))
	seen := make(map[string]struct{}, len(c.Pipeline.Categories))
	for _, category := range c.Pipeline.Categories {
		normalized := strings.ToUpper(strings.TrimSpace(category))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		categories = append(categories, normalized)
	}
	c.Pipeline.Categories = categories
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
