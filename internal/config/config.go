package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"viewpulse/internal/faults"
)

//go:embed sample_config.toml
var sampleConfig string

// Threshold stage names accepted by the classifier and ranking sections.
const (
	ThresholdStrict  = "strict"
	ThresholdLenient = "lenient"
)

// Store backend names.
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Store selects and tunes the persistence backend.
type Store struct {
	Backend            string `toml:"backend"`
	SQLitePath         string `toml:"sqlite_path"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
}

// Classifier holds the two short-form cutoffs and the growth stage's choice.
type Classifier struct {
	// ShortThresholdStrictSeconds is the historical/general cutoff.
	ShortThresholdStrictSeconds int `toml:"short_threshold_strict_seconds"`
	// ShortThresholdLenientSeconds is the ranking/report cutoff.
	ShortThresholdLenientSeconds int `toml:"short_threshold_lenient_seconds"`
	// GrowthThreshold names the cutoff ("strict" or "lenient") the growth
	// engine classifies with.
	GrowthThreshold string `toml:"growth_threshold"`
}

// Ranking contains the top-K aggregator settings.
type Ranking struct {
	RetentionDays int `toml:"retention_days"`
	TopK          int `toml:"top_k"`
	// Reclassify re-derives is_short at ranking time for entries with a known
	// duration, using Threshold. Off by default so one run uses one cutoff.
	Reclassify bool   `toml:"reclassify"`
	Threshold  string `toml:"threshold"`
}

// Pipeline contains batch runner settings.
type Pipeline struct {
	Workers    int      `toml:"workers"`
	Categories []string `toml:"categories"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for viewpulse.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Store: backend selection (files or sqlite) and lock timeout
//   - Classifier: strict/lenient short-form cutoffs and the growth stage choice
//   - Ranking: retention window, bucket size, optional reclassification
//   - Pipeline: worker count and default category list
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Store      Store      `toml:"store"`
	Classifier Classifier `toml:"classifier"`
	Ranking    Ranking    `toml:"ranking"`
	Pipeline   Pipeline   `toml:"pipeline"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/viewpulse/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("%w: parse config: %w", faults.ErrConfiguration, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads ./.env when present. Variables already set in the process
// environment take precedence.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat .env: %w", err)
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %q is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("viewpulse.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ThresholdSeconds resolves a stage threshold name to its cutoff.
func (c *Config) ThresholdSeconds(name string) int {
	if strings.EqualFold(strings.TrimSpace(name), ThresholdStrict) {
		return c.Classifier.ShortThresholdStrictSeconds
	}
	return c.Classifier.ShortThresholdLenientSeconds
}

// GrowthThresholdSeconds is the cutoff the growth engine classifies with.
func (c *Config) GrowthThresholdSeconds() int {
	return c.ThresholdSeconds(c.Classifier.GrowthThreshold)
}

// RankingThresholdSeconds is the cutoff used when ranking reclassification is on.
func (c *Config) RankingThresholdSeconds() int {
	return c.ThresholdSeconds(c.Ranking.Threshold)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
