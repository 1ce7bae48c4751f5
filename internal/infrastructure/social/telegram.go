package social

import (
	"context"
	"errors"
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

const telegramAPI = "https://api.telegram.org"

// TelegramPoster sends cross-posts to a Telegram chat via bot API.
type TelegramPoster struct {
	apiBase  string
	botToken string
	chatID   string
	maxChars int
	client   *httpjson.Client
}

var _ ports.SocialPoster = (*TelegramPoster)(nil)

// NewTelegramPoster registers bot token and chat identifier.
func NewTelegramPoster(cfg config.TelegramConfig, maxChars int, client *http.Client) *TelegramPoster {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &TelegramPoster{
		apiBase:  telegramAPI,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		maxChars: maxChars,
		client:   httpjson.New(client, 5*time.Second),
	}
}

// Post sends a plain-text message; Markdown parsing stays off so URLs survive intact.
func (n *TelegramPoster) Post(ctx context.Context, narrative domain.Narrative, articleURL string) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram poster misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimSuffix(n.apiBase, "/"), n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", ComposeMessage(narrative.Text, articleURL, n.maxChars))

	var resp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := n.client.PostForm(ctx, endpoint, nil, form, &resp); err != nil {
		// url.Error would print the endpoint, which embeds the bot token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram send message: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram error: %s", resp.Description)
	}

	return nil
}
