package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"
)

// RESTTransport calls the generateContent REST endpoint with the API key as
// the "key" query parameter.
type RESTTransport struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	timeout    time.Duration
}

// NewRESTTransport creates a REST transport. A nil httpClient uses http.DefaultClient.
func NewRESTTransport(cfg Config, httpClient *http.Client) *RESTTransport {
	cfg = cfg.withDefaults()
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RESTTransport{
		httpClient: httpClient,
		endpoint:   fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model),
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
	}
}

type generateRequest struct {
	Contents         []*genai.Content `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

func newGenerateRequest(prompt string, params Params) generateRequest {
	return generateRequest{
		Contents: []*genai.Content{
			{Parts: []*genai.Part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			MaxOutputTokens: params.MaxOutputTokens,
			Temperature:     params.Temperature,
		},
	}
}

// Generate sends one request bounded by the per-call timeout.
func (t *RESTTransport) Generate(ctx context.Context, prompt string, params Params) Outcome {
	body, err := json.Marshal(newGenerateRequest(prompt, params))
	if err != nil {
		return transportFailure(fmt.Errorf("encode request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"?key="+url.QueryEscape(t.apiKey), bytes.NewReader(body))
	if err != nil {
		return transportFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return transportFailure(redact(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(fmt.Errorf("read response: %w", err))
	}

	return classifyResponse(resp.StatusCode, raw)
}

// redact drops the request URL (which carries the API key) from client errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
