package imagegen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/infrastructure/httpjson"
	"CryptoNewsPublisher/internal/ports"
)

// StarryAIClient requests images from a creations API. Every failure
// degrades to an absent illustration.
type StarryAIClient struct {
	endpoint     string
	apiKey       string
	width        int
	height       int
	pollAttempts int
	pollInterval time.Duration
	deadline     time.Duration
	client       *httpjson.Client
	logger       *slog.Logger
}

var _ ports.Illustrator = (*StarryAIClient)(nil)

// NewStarryAIClient builds a client from configuration.
func NewStarryAIClient(cfg config.IllustrationConfig, client *http.Client, log *slog.Logger) *StarryAIClient {
	deadline := cfg.Timeout
	if deadline <= 0 {
		deadline = 60 * time.Second
	}
	return &StarryAIClient{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		width:        cfg.Width,
		height:       cfg.Height,
		pollAttempts: cfg.PollAttempts,
		pollInterval: cfg.PollInterval,
		deadline:     deadline,
		client:       httpjson.New(client, deadline),
		logger:       log,
	}
}

// Generate submits the prompt and returns the first usable image, polling the
// creations list when the submission response has none yet.
func (c *StarryAIClient) Generate(ctx context.Context, prompt string) domain.Illustration {
	if c.apiKey == "" {
		c.warn("image generation skipped", "reason", "api key is not configured")
		return domain.Illustration{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()

	header := http.Header{}
	header.Set("X-API-Key", c.apiKey)

	payload := map[string]any{
		"prompt": prompt,
		"width":  c.width,
		"height": c.height,
	}

	var raw json.RawMessage
	if err := c.client.PostJSON(ctx, c.endpoint, header, payload, &raw); err != nil {
		c.warn("image request failed", "error", err)
		return domain.Illustration{}
	}

	url, reason := pickImage(raw)
	if url != "" {
		return domain.Illustration{URL: url}
	}
	c.debug("no image in submission response", "reason", reason)

	// The creations list spans the whole account; only our submission counts.
	id := submittedID(raw)
	if id == "" {
		c.warn("no valid image available", "reason", "submission response has no creation id")
		return domain.Illustration{}
	}

	for attempt := 1; attempt <= c.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			c.warn("image polling stopped", "creation_id", id, "attempt", attempt, "error", ctx.Err())
			return domain.Illustration{}
		case <-time.After(c.pollInterval):
		}

		raw = nil
		if err := c.client.GetJSON(ctx, c.endpoint, header, &raw); err != nil {
			c.warn("image poll failed", "creation_id", id, "attempt", attempt, "error", err)
			continue
		}

		url, reason, final := pickCreationImage(raw, id)
		if url != "" {
			return domain.Illustration{URL: url}
		}
		if final {
			c.warn("no valid image available", "creation_id", id, "reason", reason)
			return domain.Illustration{}
		}
		c.debug("image not ready", "creation_id", id, "attempt", attempt, "reason", reason)
	}

	c.warn("no valid image available", "creation_id", id, "reason", "poll attempts exhausted")
	return domain.Illustration{}
}

type creation struct {
	ID      json.RawMessage `json:"id"`
	Status  string          `json:"status"`
	Expired bool            `json:"expired"`
	Images  []image         `json:"images"`
}

// key normalizes numeric and string ids.
func (c creation) key() string {
	return strings.Trim(strings.TrimSpace(string(c.ID)), `"`)
}

func (c creation) firstImage() string {
	for _, img := range c.Images {
		if url := strings.TrimSpace(img.URL); url != "" {
			return url
		}
	}
	return ""
}

type image struct {
	URL string `json:"url"`
}

// pickImage returns the first image URL of the first non-expired creation in
// a submission response. When nothing qualifies it explains why.
func pickImage(raw json.RawMessage) (string, string) {
	creations, err := decodeCreations(raw)
	if err != nil {
		return "", err.Error()
	}
	if len(creations) == 0 {
		return "", "empty creations list"
	}

	expired := 0
	for _, c := range creations {
		if c.Expired {
			expired++
			continue
		}
		if url := c.firstImage(); url != "" {
			return url, ""
		}
	}

	if expired == len(creations) {
		return "", "all creations expired"
	}
	return "", "creations contain no images"
}

// submittedID is the id of the first creation in a submission response.
func submittedID(raw json.RawMessage) string {
	creations, err := decodeCreations(raw)
	if err != nil || len(creations) == 0 {
		return ""
	}
	return creations[0].key()
}

// pickCreationImage looks only at the creation with the given id. final is
// true once that creation can no longer produce an image.
func pickCreationImage(raw json.RawMessage, id string) (url, reason string, final bool) {
	creations, err := decodeCreations(raw)
	if err != nil {
		return "", err.Error(), false
	}

	for _, c := range creations {
		if c.key() != id {
			continue
		}
		if c.Expired {
			return "", "creation expired", true
		}
		if url := c.firstImage(); url != "" {
			return url, "", false
		}
		switch strings.ToLower(c.Status) {
		case "completed", "failed":
			return "", fmt.Sprintf("creation %s with no images", strings.ToLower(c.Status)), true
		}
		return "", "creation status " + c.Status, false
	}
	return "", "creation not listed yet", false
}

// decodeCreations accepts a list of creations or a single creation object.
func decodeCreations(raw json.RawMessage) ([]creation, error) {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "" || trimmed == "null":
		return nil, nil
	case strings.HasPrefix(trimmed, "["):
		var list []creation
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode creations: %w", err)
		}
		return list, nil
	default:
		var single creation
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("decode creation: %w", err)
		}
		return []creation{single}, nil
	}
}

func (c *StarryAIClient) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *StarryAIClient) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
