// Package store defines the persistence contract the growth engine and the
// ranking aggregator depend on.
//
// Artifacts are addressed by a structured report.Key (category plus calendar
// day). Backends decide how a key is encoded: the filestore keeps one
// directory per category, the sqlitestore keeps rows in an embedded database.
//
// Absence is never an error: loaders return a nil value and a nil error when
// nothing is stored for a key. Read failures, corrupt payloads and write
// failures surface as *StorageError values that match faults.ErrStorage.
//
// Writers for one category must be serialized. Lock returns a per-category
// advisory file lock that also excludes other processes; different categories
// never contend.
package store
