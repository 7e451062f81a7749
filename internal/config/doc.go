// Package config loads, normalizes, and validates viewpulse configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads an optional .env file, and honours
// environment fallbacks such as VIEWPULSE_DATA_DIR. The Config type centralizes
// the retention window, bucket size, short-form thresholds and the per-stage
// threshold choice so the growth engine and ranking aggregator never hardcode
// them.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors. Invalid retention or bucket
// values fail at load time, never mid-run.
package config
