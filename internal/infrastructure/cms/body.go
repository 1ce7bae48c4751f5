package cms

import (
	"html"
	"strings"

	"CryptoNewsPublisher/internal/domain"
)

// RenderBody builds the article HTML: an optional image above the narrative
// paragraphs. The image URL is embedded as given.
func RenderBody(narrative domain.Narrative, illustration domain.Illustration) string {
	var sb strings.Builder

	if illustration.Present() {
		src := strings.ReplaceAll(strings.TrimSpace(illustration.URL), `"`, "%22")
		sb.WriteString(`<figure class="wp-block-image"><img src="`)
		sb.WriteString(src)
		sb.WriteString(`" alt="Crypto market illustration"/></figure>`)
		sb.WriteString("\n")
	}

	for _, paragraph := range strings.Split(strings.TrimSpace(narrative.Text), "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(paragraph))
		sb.WriteString("</p>\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
