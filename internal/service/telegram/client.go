package telegram

import (
	"context"
	"fmt"
	"time"

	drepo "StockSentry/internal/domain/repository"
	"StockSentry/internal/service/ratelimit"
	xlogger "StockSentry/pkg/logger"

	"github.com/go-resty/resty/v2"
)

// Telegram allows roughly one message per second per chat.
const (
	perChatBurst   = 1.0
	perChatPerSec  = 1.0
	limiterBackoff = 100 * time.Millisecond
)

// Client implements Messenger against the Telegram Bot API.
type Client struct {
	http    *resty.Client
	token   string
	apiURL  string
	limiter *ratelimit.Limiter
	logger  *xlogger.Logger
}

// New creates a Telegram messenger.
func New(apiURL, token string, timeout time.Duration, logger *xlogger.Logger) drepo.Messenger {
	http := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	return &Client{
		http:    http,
		token:   token,
		apiURL:  apiURL,
		limiter: ratelimit.New(),
		logger:  logger,
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers text to chatID as MarkdownV2. Text must already be escaped
// by the caller; the gateway never escapes. One attempt, no retry.
func (c *Client) Send(ctx context.Context, chatID, text string) error {
	if err := c.waitForSlot(ctx, chatID); err != nil {
		return err
	}

	var out sendMessageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{
			ChatID:                chatID,
			Text:                  text,
			ParseMode:             "MarkdownV2",
			DisableWebPagePreview: true,
		}).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token))
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("telegram send: status %d: %s", resp.StatusCode(), out.Description)
	}

	c.logger.Debug("message delivered", xlogger.String("chat_id", chatID))
	return nil
}

// waitForSlot blocks until the per-chat bucket grants a token or ctx ends.
func (c *Client) waitForSlot(ctx context.Context, chatID string) error {
	for !c.limiter.Allow(chatID, perChatBurst, perChatPerSec) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("telegram send: %w", ctx.Err())
		case <-time.After(limiterBackoff):
		}
	}
	return nil
}
