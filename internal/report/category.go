package report

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is an upper-case content-topic identifier such as PODCAST.
type Category string

var upperCaser = cases.Upper(language.Polish)

// ParseCategory trims and upper-cases a category identifier. Identifiers are
// used as directory names by the filesystem backend, so path separators and
// leading dots are rejected.
func ParseCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errors.New("category is empty")
	}
	if strings.ContainsAny(trimmed, `/\`) || strings.HasPrefix(trimmed, ".") {
		return "", fmt.Errorf("category %q contains path characters", value)
	}
	normalized := strings.Join(strings.Fields(upperCaser.String(trimmed)), "_")
	return Category(normalized), nil
}

func (c Category) String() string { return string(c) }

// Key addresses one snapshot-derived artifact.
type Key struct {
	Category Category
	Date     Date
}

func (k Key) String() string {
	return k.Category.String() + "@" + k.Date.String()
}
