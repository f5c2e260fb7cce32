package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/dvloznov/finance-assistant/internal/logger"
)

// Defaults for the Gemini endpoint and the retry budget.
const (
	DefaultModel       = "gemini-2.0-flash-lite"
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTimeout     = 60 * time.Second
	DefaultMaxAttempts = 4

	TransportREST = "rest"
	TransportSDK  = "sdk"
)

// Params are the generation parameters sent with every attempt.
type Params struct {
	MaxOutputTokens int
	Temperature     float64
}

// DefaultParams returns 256 output tokens at temperature 0.2.
func DefaultParams() Params {
	return Params{MaxOutputTokens: 256, Temperature: 0.2}
}

// Config selects the endpoint and credential.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration // per attempt
	MaxAttempts int
	Transport   string // TransportREST (default) or TransportSDK
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Transport == "" {
		c.Transport = TransportREST
	}
	return c
}

// Transport performs a single generation attempt and classifies its result.
type Transport interface {
	Generate(ctx context.Context, prompt string, params Params) Outcome
}

// NewTransport builds the transport named by cfg.Transport.
func NewTransport(ctx context.Context, cfg Config, httpClient *http.Client) (Transport, error) {
	cfg = cfg.withDefaults()
	if cfg.Transport == TransportSDK && cfg.APIKey != "" {
		return NewSDKTransport(ctx, cfg, httpClient)
	}
	return NewRESTTransport(cfg, httpClient), nil
}

// Client answers prompts through a Transport with bounded retries.
// It never returns an error: every failure becomes a display message.
type Client struct {
	transport   Transport
	configured  bool
	maxAttempts int
	sleep       func(time.Duration)
}

// Option customizes a Client.
type Option func(*Client)

// WithSleep replaces time.Sleep for backoff waits.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// NewClient creates a client. A Config without APIKey yields a client that
// answers with the "not configured" message and never calls transport.
func NewClient(cfg Config, transport Transport, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		transport:   transport,
		configured:  cfg.APIKey != "" && transport != nil,
		maxAttempts: cfg.MaxAttempts,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backoff returns the wait before retrying after the given zero-based attempt.
func Backoff(attempt int) time.Duration {
	return time.Duration(2+attempt*2) * time.Second
}

// Ask wraps prompt in the assistant persona and returns the answer text or a
// descriptive failure message.
func (c *Client) Ask(ctx context.Context, prompt string, params Params) string {
	return c.Generate(ctx, prompt, params).Message()
}

// Generate runs the retry loop and returns the final typed outcome.
// Transient outcomes are retried after Backoff; auth and other failures end
// the loop at once. An exhausted budget returns the last transient outcome.
func (c *Client) Generate(ctx context.Context, prompt string, params Params) Outcome {
	log := logger.FromContext(ctx)

	if !c.configured {
		log.Warn().Msg("LLM call skipped: no API key configured")
		return Outcome{Kind: KindNotConfigured}
	}

	wrapped := WrapPrompt(prompt)
	var out Outcome
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		start := time.Now()
		out = c.transport.Generate(ctx, wrapped, params)

		log.Debug().
			Int("attempt", attempt+1).
			Str("outcome", out.Kind.String()).
			Int("status", out.Status).
			Dur("duration", time.Since(start)).
			Msg("LLM attempt finished")

		if out.Kind != KindTransient {
			if out.Kind != KindSuccess {
				log.Error().Str("outcome", out.Kind.String()).Int("status", out.Status).Msg("LLM call failed")
			}
			return out
		}
		if attempt == c.maxAttempts-1 {
			break
		}

		wait := Backoff(attempt)
		log.Warn().Int("attempt", attempt+1).Dur("backoff", wait).Msg("LLM busy, retrying")
		c.sleep(wait)
	}

	log.Warn().Int("attempts", c.maxAttempts).Msg("LLM retry budget exhausted")
	return out
}
