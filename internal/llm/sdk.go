package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// SDKTransport calls Gemini through the genai client library.
type SDKTransport struct {
	models  *genai.Models
	model   string
	timeout time.Duration
}

// NewSDKTransport creates a genai client for the Gemini API backend.
func NewSDKTransport(ctx context.Context, cfg Config, httpClient *http.Client) (*SDKTransport, error) {
	cfg = cfg.withDefaults()

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base, version, ok := splitBaseURL(cfg.BaseURL); ok {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: base, APIVersion: version}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("NewSDKTransport: create genai client: %w", err)
	}
	return &SDKTransport{
		models:  client.Models,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// splitBaseURL turns "https://host/v1beta" into ("https://host/", "v1beta").
func splitBaseURL(raw string) (string, string, bool) {
	raw = strings.TrimRight(raw, "/")
	i := strings.LastIndex(raw, "/")
	if i < 0 || !strings.HasPrefix(raw[i+1:], "v1") {
		return "", "", false
	}
	return raw[:i+1], raw[i+1:], true
}

// Generate sends one request bounded by the per-call timeout.
func (t *SDKTransport) Generate(ctx context.Context, prompt string, params Params) Outcome {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.models.GenerateContent(ctx, t.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(params.MaxOutputTokens),
		Temperature:     genai.Ptr(float32(params.Temperature)),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return classifyStatus(apiErr.Code, apiErr.Message)
		}
		var apiErrPtr *genai.APIError
		if errors.As(err, &apiErrPtr) {
			return classifyStatus(apiErrPtr.Code, apiErrPtr.Message)
		}
		return transportFailure(err)
	}

	if text, ok := firstText(resp); ok {
		return Outcome{Kind: KindSuccess, Text: text}
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return transportFailure(fmt.Errorf("encode response: %w", err))
	}
	return Outcome{Kind: KindSuccess, Text: string(raw)}
}
