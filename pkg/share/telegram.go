package share

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// TelegramClient posts HTML-formatted messages to a broadcast channel via
// the Telegram Bot API.
type TelegramClient struct {
	botToken   string
	channelID  string
	baseURL    string
	httpClient *http.Client
}

func NewTelegramClient(botToken, channelID string) *TelegramClient {
	return &TelegramClient{
		botToken:   botToken,
		channelID:  channelID,
		baseURL:    "https://api.telegram.org",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *TelegramClient) Name() string {
	return "Telegram"
}

func (c *TelegramClient) Post(ctx context.Context, text string) (*Result, error) {
	payload, err := json.Marshal(tgSendMessage{
		ChatID:    c.channelID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	var body tgResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("telegram decode: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 60
		if body.Parameters != nil && body.Parameters.RetryAfter > 0 {
			retryAfter = body.Parameters.RetryAfter
		}
		return &Result{
			RateLimited: true,
			ResetAt:     time.Now().Add(time.Duration(retryAfter) * time.Second),
		}, nil
	}

	if resp.StatusCode != http.StatusOK || !body.OK {
		return nil, fmt.Errorf("telegram api error: status %d, description %q", resp.StatusCode, body.Description)
	}

	return &Result{MessageID: strconv.FormatInt(body.Result.MessageID, 10)}, nil
}

type tgSendMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type tgResponse struct {
	OK          bool          `json:"ok"`
	Description string        `json:"description"`
	Result      tgMessage     `json:"result"`
	Parameters  *tgParameters `json:"parameters"`
}

type tgMessage struct {
	MessageID int64 `json:"message_id"`
}

type tgParameters struct {
	RetryAfter int `json:"retry_after"`
}
