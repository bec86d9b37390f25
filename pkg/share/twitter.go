package share

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"
)

// TwitterClient posts plain-text tweets via the Twitter API v2 using
// OAuth 1.0a user-context signing.
type TwitterClient struct {
	apiURL     string
	httpClient *http.Client
}

type TwitterCredentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

func NewTwitterClient(creds TwitterCredentials) *TwitterClient {
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)

	httpClient := config.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second

	return &TwitterClient{
		apiURL:     "https://api.twitter.com/2/tweets",
		httpClient: httpClient,
	}
}

func (c *TwitterClient) Name() string {
	return "Twitter"
}

func (c *TwitterClient) Post(ctx context.Context, text string) (*Result, error) {
	payload, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &Result{
			RateLimited: true,
			ResetAt:     rateLimitReset(resp.Header),
		}, nil
	}

	if resp.StatusCode != http.StatusCreated {
		var apiErr tweetError
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("twitter api error: status %d, detail %q", resp.StatusCode, apiErr.Detail)
	}

	var body tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("twitter decode: %w", err)
	}

	return &Result{MessageID: body.Data.ID}, nil
}

// rateLimitReset reads the provider's reset time, falling back to the
// documented 15 minute window when the header is absent.
func rateLimitReset(header http.Header) time.Time {
	if raw := header.Get("x-rate-limit-reset"); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Unix(unix, 0)
		}
	}
	return time.Now().Add(15 * time.Minute)
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type tweetError struct {
	Detail string `json:"detail"`
}
