package social

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChars is the narrative budget of a cross-post before the link suffix.
const DefaultMaxChars = 200

const readMore = "... Read more: "

// Truncate cuts text to at most limit runes. Text already within the limit is
// returned unchanged, so truncating twice is the same as truncating once.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
}

// ComposeMessage flattens the narrative onto one line, truncates it and
// appends the read-more link.
func ComposeMessage(text, articleURL string, limit int) string {
	flat := strings.Join(strings.Fields(text), " ")
	return Truncate(flat, limit) + readMore + articleURL
}
