package ports

import (
	"context"
	"time"

	"CryptoNewsPublisher/internal/domain"
)

// MarketSource pulls the current market snapshot from the configured provider.
type MarketSource interface {
	Fetch(ctx context.Context) ([]domain.MarketFact, error)
}

// NarrativeGenerator turns market facts into article text via an LLM.
type NarrativeGenerator interface {
	Generate(ctx context.Context, facts []domain.MarketFact) (domain.Narrative, error)
}

// Illustrator produces an optional image for the article. It never fails;
// an absent illustration is returned instead.
type Illustrator interface {
	Generate(ctx context.Context, prompt string) domain.Illustration
}

// Publisher creates the article in the CMS.
type Publisher interface {
	Publish(ctx context.Context, narrative domain.Narrative, illustration domain.Illustration) (domain.PublishedArticle, error)
}

// SocialPoster cross-posts a condensed narrative with a link to the article.
type SocialPoster interface {
	Post(ctx context.Context, narrative domain.Narrative, articleURL string) error
}

// Job is invoked by a Scheduler with the kind of trigger and its time.
type Job func(trigger domain.Trigger, at time.Time)

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job Job) error
	Stop(ctx context.Context) error
}
