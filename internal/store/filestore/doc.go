// Package filestore implements store.Store as a directory per category.
//
// Layout under the data directory:
//
//	<CATEGORY>/reports/<YYYY-MM-DD>.csv    raw collector snapshot
//	<CATEGORY>/growth/<YYYY-MM-DD>.json    growth report
//	<CATEGORY>/stats/<YYYY-MM-DD>.json     daily stats summary
//	<CATEGORY>/rankings/<YYYY-MM-DD>.json  ranking snapshot with history
//	.locks/<CATEGORY>.lock                 per-category writer lock
//
// File names encode the key only inside this package. Every write goes
// through a temp file and a rename so readers never observe a partial file.
package filestore
