package cms

import (
	"math/rand/v2"
	"time"

	"CryptoNewsPublisher/internal/config"
)

var titlePool = []string{
	"Today's Cryptocurrency Insights",
	"Key Crypto Market Movements",
	"Crypto Market Overview",
	"Daily Digital Asset Update",
	"Breaking News in Crypto",
	"Latest Crypto Developments",
	"Trending Cryptocurrency Reports",
	"Crypto Industry Roundup",
	"What's Happening in Crypto?",
	"Essential Crypto Market News",
}

// TitleFunc produces the article title for a publication time.
type TitleFunc func(now time.Time) string

// RandomTitle picks uniformly from the template pool.
func RandomTitle(time.Time) string {
	return titlePool[rand.IntN(len(titlePool))]
}

// DatedTitle stamps the publication date in loc.
func DatedTitle(loc *time.Location) TitleFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func(now time.Time) string {
		return "Crypto Market Update: " + now.In(loc).Format("2006-01-02")
	}
}

// TitleStrategy maps the configured style onto a TitleFunc; unknown styles fall back to random.
func TitleStrategy(style string, loc *time.Location) TitleFunc {
	if style == config.TitleDated {
		return DatedTitle(loc)
	}
	return RandomTitle
}
