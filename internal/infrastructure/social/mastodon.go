package social

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/infrastructure/httpjson"
	"CryptoNewsPublisher/internal/ports"
)

// MastodonPoster publishes statuses on a Mastodon-compatible instance.
type MastodonPoster struct {
	instance string
	token    string
	maxChars int
	client   *httpjson.Client
}

var _ ports.SocialPoster = (*MastodonPoster)(nil)

// NewMastodonPoster registers instance URL and access token.
func NewMastodonPoster(cfg config.MastodonConfig, maxChars int, client *http.Client) *MastodonPoster {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &MastodonPoster{
		instance: strings.TrimSuffix(cfg.InstanceURL, "/"),
		token:    cfg.AccessToken,
		maxChars: maxChars,
		client:   httpjson.New(client, 10*time.Second),
	}
}

// Post sends one status with the truncated narrative and the article link.
func (m *MastodonPoster) Post(ctx context.Context, narrative domain.Narrative, articleURL string) error {
	if m.instance == "" || m.token == "" {
		return fmt.Errorf("mastodon poster misconfigured")
	}

	form := url.Values{}
	form.Set("status", ComposeMessage(narrative.Text, articleURL, m.maxChars))
	form.Set("visibility", "public")

	var resp struct {
		ID string `json:"id"`
	}
	if err := m.client.PostForm(ctx, m.instance+"/api/v1/statuses", httpjson.Bearer(m.token), form, &resp); err != nil {
		return fmt.Errorf("mastodon post status: %w", err)
	}
	if resp.ID == "" {
		return fmt.Errorf("mastodon response has no status id")
	}

	return nil
}
