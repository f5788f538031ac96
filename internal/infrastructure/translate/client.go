package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

// Client talks to an external inference service that translates (and trims)
// review text. The service is a black box: any failure falls back to passing
// the original text through unchanged.
type Client struct {
	endpoint string
	apiKey   string
	minWords int
	maxWords int
	http     *http.Client
}

var _ ports.Translator = (*Client)(nil)

// NewClient creates a reusable HTTP client with generation constraints.
func NewClient(endpoint, apiKey string, minWords, maxWords int) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		minWords: minWords,
		maxWords: maxWords,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Translate sends the text for transformation. The result is explicit about
// whether the service answered or the original was passed through.
func (c *Client) Translate(ctx context.Context, text string) domain.TranslationResult {
	if c.endpoint == "" {
		return domain.Fallback(text)
	}

	payload := map[string]any{
		"text":      text,
		"min_words": c.minWords,
		"max_words": c.maxWords,
	}

	var resp struct {
		Text string `json:"text"`
	}

	if err := c.post(ctx, "/translate", payload, &resp); err != nil {
		return domain.Fallback(text)
	}
	if resp.Text == "" {
		return domain.Fallback(text)
	}

	return domain.Ok(resp.Text)
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
