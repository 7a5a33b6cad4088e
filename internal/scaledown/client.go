// Package scaledown shrinks a context+prompt pair through the ScaleDown
// compression API before it is handed to a summarizer. Compression is an
// optimization, never a dependency: a missing key, a transport error or a
// malformed response all degrade to the original prompt and the turn
// proceeds uncompressed.
package scaledown

import (
	"bytes"
	"context"
	"encoding/json"
	log "log/slog"
	"net/http"
)

const (
	// DefaultURL is the raw compression endpoint.
	DefaultURL = "https://api.scaledown.xyz/compress/raw/"
	// DefaultModel is the tokenizer target reported to the API.
	DefaultModel = "gpt-4o"
)

// Client calls the compression endpoint. A nil or key-less Client is valid
// and always falls back.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	URL        string
	Model      string
}

func New(client *http.Client, apiKey string) *Client {
	return &Client{
		HTTPClient: client,
		APIKey:     apiKey,
		URL:        DefaultURL,
		Model:      DefaultModel,
	}
}

// Result of one compression call. When Compressed is false, Prompt is the
// caller's original prompt and the token counts are meaningless.
type Result struct {
	Prompt           string
	OriginalTokens   int
	CompressedTokens int
	Compressed       bool
}

// SavingsPct derives the percentage of tokens saved. ok is false when the
// original token count is zero or unknown (no division by zero, per the
// upstream API quirk of sometimes omitting counts).
func (r Result) SavingsPct() (pct float64, ok bool) {
	if !r.Compressed || r.OriginalTokens <= 0 {
		return 0, false
	}
	return float64(r.OriginalTokens-r.CompressedTokens) / float64(r.OriginalTokens) * 100, true
}

type compressRequest struct {
	Context   string `json:"context"`
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	ScaleDown struct {
		Rate string `json:"rate"`
	} `json:"scaledown"`
}

type compressResponse struct {
	CompressedPrompt       string `json:"compressed_prompt"`
	OriginalPromptTokens   int    `json:"original_prompt_tokens"`
	CompressedPromptTokens int    `json:"compressed_prompt_tokens"`
}

// Compress sends contextText and prompt for compression. Every failure path
// returns the original prompt unchanged.
func (c *Client) Compress(ctx context.Context, contextText, prompt string) Result {
	fallback := Result{Prompt: prompt}

	if c == nil || c.APIKey == "" {
		log.Debug("scaledown: api key not set, skipping compression")
		return fallback
	}

	reqBody := compressRequest{Context: contextText, Prompt: prompt, Model: c.Model}
	reqBody.ScaleDown.Rate = "auto"
	payload, err := json.Marshal(reqBody)
	if err != nil {
		log.Warn("scaledown: marshal request", "err", err)
		return fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		log.Warn("scaledown: build request", "err", err)
		return fallback
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn("scaledown: request failed", "err", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("scaledown: bad status", "status", resp.StatusCode)
		return fallback
	}

	var body compressResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn("scaledown: decode response", "err", err)
		return fallback
	}
	if body.CompressedPrompt == "" {
		return fallback
	}

	res := Result{
		Prompt:           body.CompressedPrompt,
		OriginalTokens:   body.OriginalPromptTokens,
		CompressedTokens: body.CompressedPromptTokens,
		Compressed:       true,
	}
	if pct, ok := res.SavingsPct(); ok {
		log.Info("scaledown: compressed prompt",
			"original_tokens", res.OriginalTokens,
			"compressed_tokens", res.CompressedTokens,
			"savings_pct", pct)
	}
	return res
}
