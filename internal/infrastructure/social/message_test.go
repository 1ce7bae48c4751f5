package social

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBoundsAndIdempotence(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Bitcoin edges higher.",
		strings.Repeat("a", 199),
		strings.Repeat("b", 200),
		strings.Repeat("c", 201),
		strings.Repeat("word ", 120),
		strings.Repeat("₿ü", 150),
	}

	for _, in := range inputs {
		once := Truncate(in, DefaultMaxChars)
		assert.LessOrEqual(t, utf8.RuneCountInString(once), DefaultMaxChars)
		assert.True(t, utf8.ValidString(once))
		assert.Equal(t, once, Truncate(once, DefaultMaxChars), "truncation must be idempotent")
		if utf8.RuneCountInString(in) <= DefaultMaxChars {
			assert.Equal(t, in, once)
		}
	}
}

func TestTruncateTrimsTrailingSpace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bitcoin", Truncate("Bitcoin edges higher.", 8))
	assert.Equal(t, "", Truncate("anything", 0))
}

func TestComposeMessage(t *testing.T) {
	t.Parallel()

	msg := ComposeMessage("Bitcoin edges higher.", "https://blog.example/post", DefaultMaxChars)
	assert.Equal(t, "Bitcoin edges higher.... Read more: https://blog.example/post", msg)

	long := strings.Repeat("x", 500)
	msg = ComposeMessage(long, "https://blog.example/post", DefaultMaxChars)
	assert.Equal(t, strings.Repeat("x", 200)+"... Read more: https://blog.example/post", msg)

	msg = ComposeMessage("First paragraph.\n\nSecond   one.", "u", DefaultMaxChars)
	assert.Equal(t, "First paragraph. Second one.... Read more: u", msg)
}
