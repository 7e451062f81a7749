package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts a plain integer string or an ISO-8601 style
// PT#H#M#S value into seconds. Each ISO component is optional and defaults to
// zero. Anything else reports false.
func ParseDuration(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, ok := parseSeconds(value); ok {
		return seconds, true
	}

	match := isoDurationPattern.FindStringSubmatch(strings.ToUpper(value))
	if match == nil {
		return 0, false
	}
	total := 0
	for i, unit := range []int{3600, 60, 1} {
		part := match[i+1]
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > (math.MaxInt-total)/unit {
			return 0, false
		}
		total += n * unit
	}
	if total < 0 {
		return 0, false
	}
	return total, true
}

// parseSeconds accepts only a plain non-negative integer.
func parseSeconds(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseCount parses a non-negative counter. Thousands separators and a
// trailing ".0" written by spreadsheet exports are tolerated.
func parseCount(value string) (int64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '_', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(value))
	if whole, frac, ok := strings.Cut(cleaned, "."); ok && strings.Trim(frac, "0") == "" {
		cleaned = whole
	}
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
