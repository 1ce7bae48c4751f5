package llm

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	markupHint     = regexp.MustCompile(`<[a-zA-Z/!]`)
)

// cleanNarrative removes an echoed prompt, strips markup the model may emit and
// normalizes whitespace into paragraphs separated by a blank line.
func cleanNarrative(output, prompt string) string {
	text := strings.TrimSpace(output)
	if p := strings.TrimSpace(prompt); p != "" && strings.HasPrefix(text, p) {
		text = strings.TrimSpace(strings.TrimPrefix(text, p))
	}

	text = stripMarkup(text)

	var paragraphs []string
	for _, block := range paragraphBreak.Split(text, -1) {
		block = strings.Join(strings.Fields(block), " ")
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func stripMarkup(text string) string {
	if !markupHint.MatchString(text) {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6").AppendHtml("\n\n")

	return doc.Text()
}
