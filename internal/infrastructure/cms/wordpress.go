package cms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/infrastructure/httpjson"
	"CryptoNewsPublisher/internal/ports"
)

// WordPressPublisher creates posts through the WordPress REST API.
type WordPressPublisher struct {
	endpoint string
	token    string
	status   string
	title    TitleFunc
	now      func() time.Time
	client   *httpjson.Client
}

var _ ports.Publisher = (*WordPressPublisher)(nil)

// NewWordPressPublisher wires the posts endpoint and bearer token; titles are
// dated in loc when the dated style is configured.
func NewWordPressPublisher(cfg config.CMSConfig, loc *time.Location, client *http.Client) *WordPressPublisher {
	status := cfg.Status
	if status == "" {
		status = "publish"
	}
	return &WordPressPublisher{
		endpoint: cfg.URL,
		token:    cfg.Token,
		status:   status,
		title:    TitleStrategy(cfg.TitleStyle, loc),
		now:      time.Now,
		client:   httpjson.New(client, 20*time.Second),
	}
}

// Publish posts the article and returns its public link.
func (p *WordPressPublisher) Publish(ctx context.Context, narrative domain.Narrative, illustration domain.Illustration) (domain.PublishedArticle, error) {
	if p.token == "" {
		return domain.PublishedArticle{}, fmt.Errorf("wordpress token is not configured")
	}
	if p.endpoint == "" {
		return domain.PublishedArticle{}, fmt.Errorf("wordpress url is not configured")
	}

	title := p.title(p.now())
	payload := map[string]string{
		"title":   title,
		"content": RenderBody(narrative, illustration),
		"status":  p.status,
	}

	var resp struct {
		ID   int64  `json:"id"`
		Link string `json:"link"`
	}
	if err := p.client.PostJSON(ctx, p.endpoint, httpjson.Bearer(p.token), payload, &resp); err != nil {
		return domain.PublishedArticle{}, fmt.Errorf("wordpress create post: %w", err)
	}
	if resp.Link == "" {
		return domain.PublishedArticle{}, fmt.Errorf("wordpress response has no link")
	}

	return domain.PublishedArticle{ID: resp.ID, Title: title, URL: resp.Link}, nil
}
