package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/infrastructure/httpjson"
	"CryptoNewsPublisher/internal/ports"
)

// HuggingFaceClient implements ports.NarrativeGenerator on the hosted inference API.
type HuggingFaceClient struct {
	endpoint     string
	model        string
	apiKey       string
	maxNewTokens int
	temperature  float64
	client       *httpjson.Client
}

var _ ports.NarrativeGenerator = (*HuggingFaceClient)(nil)

// NewHuggingFaceClient builds a client from configuration. Generation can take a while, hence the long timeout.
func NewHuggingFaceClient(cfg config.HuggingFaceConfig, client *http.Client) *HuggingFaceClient {
	return &HuggingFaceClient{
		endpoint:     strings.TrimSuffix(cfg.Endpoint, "/"),
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		maxNewTokens: cfg.MaxNewTokens,
		temperature:  cfg.Temperature,
		client:       httpjson.New(client, 60*time.Second),
	}
}

// Generate sends one text-generation request and returns the cleaned narrative.
func (c *HuggingFaceClient) Generate(ctx context.Context, facts []domain.MarketFact) (domain.Narrative, error) {
	if c.apiKey == "" {
		return domain.Narrative{}, fmt.Errorf("huggingface api key is not configured")
	}
	if c.model == "" {
		return domain.Narrative{}, fmt.Errorf("huggingface model is not configured")
	}

	prompt := BuildPrompt(facts)
	payload := map[string]any{
		"model":  c.model,
		"inputs": prompt,
		"parameters": map[string]any{
			"max_new_tokens":   c.maxNewTokens,
			"temperature":      c.temperature,
			"return_full_text": false,
		},
	}

	var raw json.RawMessage
	if err := c.client.PostJSON(ctx, c.endpoint+"/"+c.model, httpjson.Bearer(c.apiKey), payload, &raw); err != nil {
		return domain.Narrative{}, fmt.Errorf("huggingface generate: %w", err)
	}

	generated, err := parseGeneratedText(raw)
	if err != nil {
		return domain.Narrative{}, err
	}

	text := cleanNarrative(generated, prompt)
	if text == "" {
		return domain.Narrative{}, fmt.Errorf("huggingface returned no text")
	}
	return domain.Narrative{Text: text}, nil
}

// parseGeneratedText accepts both the list and the single-object response shapes.
func parseGeneratedText(raw json.RawMessage) (string, error) {
	type generation struct {
		GeneratedText string `json:"generated_text"`
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var list []generation
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", fmt.Errorf("decode generations: %w", err)
		}
		if len(list) == 0 {
			return "", fmt.Errorf("huggingface returned no generations")
		}
		return list[0].GeneratedText, nil
	}

	var single generation
	if err := json.Unmarshal(raw, &single); err != nil {
		return "", fmt.Errorf("decode generation: %w", err)
	}
	return single.GeneratedText, nil
}
