// Package faults defines the error markers shared by the viewpulse core.
//
// The markers follow the pipeline's error taxonomy: missing data is a normal
// outcome (ErrNoData), per-record problems degrade gracefully
// (ErrMalformedInput), while storage and configuration failures are fatal for
// the current operation. Wrap tags an error with a marker plus stage context
// so callers can classify failures with errors.Is, and ExitCode maps a
// classified error to the CLI's process status.
package faults
