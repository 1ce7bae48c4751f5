package domain

import "strings"

// MarketFact is one normalized line of market data fetched from a provider.
type MarketFact struct {
	Headline string
	Detail   string
}

// Narrative is the generated summary text of a run.
type Narrative struct {
	Text string
}

// Empty reports whether the narrative carries no printable text.
func (n Narrative) Empty() bool {
	return strings.TrimSpace(n.Text) == ""
}

// Illustration points to a generated image; an empty URL means no image.
type Illustration struct {
	URL string
}

// Present reports whether an image URL is available.
func (i Illustration) Present() bool {
	return strings.TrimSpace(i.URL) != ""
}

// PublishedArticle is the CMS post created by a run.
type PublishedArticle struct {
	ID    int64
	Title string
	URL   string
}
