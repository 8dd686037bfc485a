// Package insight wraps the remote generative-text endpoint behind fallbacks:
// weather lookups degrade to locally simulated readings and fortunes degrade
// to a canned phrase pool, so a dead or quota-exhausted upstream never
// surfaces as a user-visible error.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel    = "gemini-3-flash-preview"
)

var errQuota = errors.New("quota exhausted")

var fortuneFallbacks = []string{
	"The neon flickers. The house always has a seat for you.",
	"The dice are rolling, friend.",
	"Lady Luck just looked your way. Don't blink.",
	"Hot streaks cool fast. Cash out while the lights are green.",
}

const advisoryFallback = "Local pressure is nominal. Satellite systems operating in low-bandwidth mode."

var fallbackConditions = []string{"Sunny", "Partly Cloudy", "Clear Skies", "Light Breeze"}

type Client struct {
	http     *http.Client
	apiKey   string
	endpoint string
	model    string
	cache    Cache

	// Backoff between quota retries. Shrunk by tests.
	retryDelay time.Duration
}

func New(apiKey string, endpoint string, model string, cache Cache, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		http:       httpClient,
		apiKey:     apiKey,
		endpoint:   endpoint,
		model:      model,
		cache:      cache,
		retryDelay: time.Second,
	}
}

// Generative endpoint wire types, the subset this client touches.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

func prompt(text string) []content {
	return []content{{Parts: []part{{Text: text}}}}
}

func (c *Client) generateOnce(ctx context.Context, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(string(raw), "RESOURCE_EXHAUSTED") {
		return "", errQuota
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate: status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	return parsed.text(), nil
}

// generate retries quota rejections with exponential backoff. Other errors
// fail straight through to the caller's fallback.
func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	delay := c.retryDelay
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			delay *= 2
		}
		text, err := c.generateOnce(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !errors.Is(err, errQuota) {
			return "", err
		}
	}
	return "", lastErr
}

// CasinoFortune returns a short dealer one-liner. Never fails: upstream
// trouble lands on the canned pool.
func (c *Client) CasinoFortune(ctx context.Context, balance, win decimal.Decimal) string {
	if c.apiKey == "" {
		return c.fallbackFortune()
	}

	var text string
	if win.IsPositive() {
		text = fmt.Sprintf("A player just won %s coins! Total balance: %s. Give a short, witty, neon-noir dealer shoutout.", win, balance)
	} else {
		text = fmt.Sprintf("Player balance: %s. Give a cool, encouraging gambling tip.", balance)
	}
	req := generateRequest{
		Contents: prompt(text),
		SystemInstruction: &content{Parts: []part{{
			Text: "You are 'Neon Nick', a charismatic AI Casino Dealer in a high-end synthwave lounge. Max 15 words.",
		}}},
	}

	result, err := c.generate(ctx, req)
	if err != nil || result == "" {
		return c.fallbackFortune()
	}
	return result
}

func (c *Client) fallbackFortune() string {
	return fortuneFallbacks[randIntn(len(fortuneFallbacks))]
}
