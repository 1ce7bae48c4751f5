package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/infrastructure/httpjson"
	"CryptoNewsPublisher/internal/ports"
)

// ChatGPTClient implements ports.NarrativeGenerator backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	client       *httpjson.Client
}

var _ ports.NarrativeGenerator = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.ChatGPTConfig, client *http.Client) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		client:       httpjson.New(client, 30*time.Second),
	}
}

// Generate posts the market prompt as a user message and returns the first choice.
func (c *ChatGPTClient) Generate(ctx context.Context, facts []domain.MarketFact) (domain.Narrative, error) {
	if c == nil {
		return domain.Narrative{}, fmt.Errorf("chatgpt client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.Narrative{}, fmt.Errorf("chatgpt client misconfigured")
	}

	prompt := BuildPrompt(facts)
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": prompt},
		},
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.client.PostJSON(ctx, c.endpoint, httpjson.Bearer(c.apiKey), payload, &resp); err != nil {
		return domain.Narrative{}, fmt.Errorf("chatgpt completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Narrative{}, fmt.Errorf("no choices from chatgpt")
	}

	text := cleanNarrative(resp.Choices[0].Message.Content, prompt)
	if text == "" {
		return domain.Narrative{}, fmt.Errorf("chatgpt returned no text")
	}
	return domain.Narrative{Text: text}, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a financial journalist who writes short cryptocurrency market updates."
	}
	return prompt
}
