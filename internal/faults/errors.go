package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoData         = errors.New("no data")
	ErrMalformedInput = errors.New("malformed input")
	ErrStorage        = errors.New("storage failure")
	ErrConfiguration  = errors.New("configuration error")
	ErrLocked         = errors.New("category locked")
)

// Process exit codes reported by the CLI.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitNoData        = 2
	ExitConfiguration = 3
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrStorage
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// NoData reports an expected absence, e.g. a category without a snapshot.
func NoData(stage, message string) error {
	return Wrap(ErrNoData, stage, "", message, nil)
}

// IsNoData reports whether err marks an expected absence rather than a failure.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// ExitCode maps an error to the CLI exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNoData):
		return ExitNoData
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	default:
		return ExitFailure
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
