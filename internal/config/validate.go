package config

import (
	"fmt"

	"viewpulse/internal/faults"
)

// Validate ensures the configuration is usable. Every failure wraps
// faults.ErrConfiguration.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateRanking(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", faults.ErrConfiguration, fmt.Sprintf(format, args...))
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendFiles, BackendSQLite:
	default:
		return invalid("store.backend must be %q or %q, got %q", BackendFiles, BackendSQLite, c.Store.Backend)
	}
	if c.Paths.DataDir == "" {
		return invalid("paths.data_dir must be set")
	}
	if c.Store.LockTimeoutSeconds < 0 {
		return invalid("store.lock_timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateClassifier() error {
	strict := c.Classifier.ShortThresholdStrictSeconds
	lenient := c.Classifier.ShortThresholdLenientSeconds
	if strict <= 0 {
		return invalid("classifier.short_threshold_strict_seconds must be positive")
	}
	if lenient <= 0 {
		return invalid("classifier.short_threshold_lenient_seconds must be positive")
	}
	if strict > lenient {
		return invalid("classifier.short_threshold_strict_seconds (%d) must not exceed short_threshold_lenient_seconds (%d)", strict, lenient)
	}
	if !validThresholdName(c.Classifier.GrowthThreshold) {
		return invalid("classifier.growth_threshold must be %q or %q, got %q", ThresholdStrict, ThresholdLenient, c.Classifier.GrowthThreshold)
	}
	return nil
}

func (c *Config) validateRanking() error {
	if c.Ranking.RetentionDays <= 0 {
		return invalid("ranking.retention_days must be positive, got %d", c.Ranking.RetentionDays)
	}
	if c.Ranking.TopK <= 0 {
		return invalid("ranking.top_k must be positive, got %d", c.Ranking.TopK)
	}
	if !validThresholdName(c.Ranking.Threshold) {
		return invalid("ranking.threshold must be %q or %q, got %q", ThresholdStrict, ThresholdLenient, c.Ranking.Threshold)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers <= 0 {
		return invalid("pipeline.workers must be positive, got %d", c.Pipeline.Workers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func validThresholdName(name string) bool {
	return name == ThresholdStrict || name == ThresholdLenient
}
