// Package sqlitestore implements store.Store on a single SQLite database.
//
// Raw snapshots keep one row per collector row with its original headers as
// JSON; derived artifacts (growth, stats, rankings) are stored as JSON
// payloads keyed by (category, date). Schema changes ship as numbered files
// under migrations/ and are applied on Open. Category locks use the same
// advisory lock files as the filesystem backend, placed next to the database.
package sqlitestore
