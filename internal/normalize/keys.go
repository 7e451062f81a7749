package normalize

import (
	"strings"
	"unicode"
)

var keyReplacer = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeKey canonicalizes a CSV header. It is idempotent.
func NormalizeKey(key string) string {
	key = strings.TrimLeftFunc(key, func(r rune) bool {
		return r == '\uFEFF' || unicode.IsSpace(r)
	})
	key = strings.TrimRightFunc(key, unicode.IsSpace)
	return keyReplacer.Replace(strings.ToLower(key))
}

// Alias lists, highest priority first.
var (
	videoIDAliases     = []string{"video_id", "videoid", "id"}
	titleAliases       = []string{"title", "video_title"}
	channelAliases     = []string{"channel", "channel_title", "channeltitle", "channel_name"}
	viewsAliases       = []string{"views_today", "view_count", "views"}
	durationSecAliases = []string{"duration_seconds"}
	durationAliases    = []string{"duration", "duration_iso"}
	typeHintAliases    = []string{"video_type", "type", "content_type", "format"}
	tagsAliases        = []string{"tags"}
	descriptionAliases = []string{"description"}
	publishedAliases   = []string{"published_at", "publishedat", "publish_date", "upload_date"}
)

// normalizedRow is a RawRow whose keys went through NormalizeKey.
type normalizedRow map[string]string

// lookup returns the first alias present with a non-blank value.
func (r normalizedRow) lookup(aliases []string) (string, string, bool) {
	for _, alias := range aliases {
		if value, ok := r[alias]; ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return alias, trimmed, true
			}
		}
	}
	return "", "", false
}

func (r normalizedRow) value(aliases []string) string {
	_, value, _ := r.lookup(aliases)
	return value
}
