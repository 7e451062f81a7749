package logging

import "strings"

// FormatSubject builds the category/date/stage subject string used in console output.
func FormatSubject(category, date, stage string) string {
	category = strings.TrimSpace(category)
	date = strings.TrimSpace(date)
	stage = strings.TrimSpace(stage)

	var subject string
	switch {
	case category != "" && date != "":
		subject = category + " @ " + date
	case category != "":
		subject = category
	case date != "":
		subject = date
	}
	if stage == "" {
		return subject
	}
	if subject == "" {
		return stage
	}
	return subject + " (" + stage + ")"
}
