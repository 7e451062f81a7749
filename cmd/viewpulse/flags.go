package main

import (
	"fmt"
	"strings"

	"viewpulse/internal/faults"
	"viewpulse/internal/report"
)

// parseDateFlag defaults to the local calendar day when value is blank.
func parseDateFlag(value string) (report.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return report.Today(), nil
	}
	date, err := report.ParseDate(value)
	if err != nil {
		return report.Date{}, faults.Wrap(faults.ErrMalformedInput, "cli", "parse --date", fmt.Sprintf("expected YYYY-MM-DD, got %q", value), nil)
	}
	return date, nil
}

func parseCategoryFlag(value string) (report.Category, error) {
	if strings.TrimSpace(value) == "" {
		return "", faults.Wrap(faults.ErrMalformedInput, "cli", "parse --category", "a category is required", nil)
	}
	category, err := report.ParseCategory(value)
	if err != nil {
		return "", faults.Wrap(faults.ErrMalformedInput, "cli", "parse --category", "", err)
	}
	return category, nil
}

func parseCategoryList(values []string) ([]report.Category, error) {
	seen := map[report.Category]struct{}{}
	out := make([]report.Category, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			category, err := parseCategoryFlag(part)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[category]; dup {
				continue
			}
			seen[category] = struct{}{}
			out = append(out, category)
		}
	}
	return out, nil
}

func noData(what string, key report.Key) error {
	return faults.NoData("cli", fmt.Sprintf("no %s stored for %s", what, key))
}
