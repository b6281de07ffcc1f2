// Package format holds the pure presentation helpers the rendering layer
// uses when displaying stories: date formatting, excerpt truncation, and
// tag stripping. Nothing here touches request state or storage.
package format

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var tagPattern = regexp.MustCompile(`<(.|\n)*?>`)

// Date renders a timestamp the way story cards display it, e.g.
// "Jan 2 2006, 3:04 PM".
func Date(t time.Time) string {
	return t.Format("Jan 2 2006, 3:04 PM")
}

// Truncate shortens s to at most limit characters, cutting at the last
// word boundary that fits and appending an ellipsis. The limit counts
// runes, not bytes, so multi-byte text is never split mid-character.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	cut := string([]rune(s)[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// StripTags removes HTML tags from user-authored story bodies before they
// are shown in excerpts.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
