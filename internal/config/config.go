package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/llm"
)

// DefaultCORSOrigins are the local UI origins allowed when CORS_ORIGINS is unset.
var DefaultCORSOrigins = []string{"http://localhost:8501", "http://127.0.0.1:8501"}

const defaultMaxUploadBytes = 10 << 20

// Config is the runtime configuration shared by the API server and the CLI.
type Config struct {
	// HTTP Server
	Port              string
	CORSOrigins       []string
	MaxUploadBytes    int64
	ChatRatePerMinute int

	// Logging
	LogLevel string

	// Gemini
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	GeminiTimeout   time.Duration
	GeminiTransport string

	// Google Cloud Storage
	GCSCredentialsFile string
}

// LoadEnvFiles loads the first .env file found in the current or parent
// directory. A missing file is not an error; the OS environment is used as is.
func LoadEnvFiles() error {
	for _, name := range []string{".env", "../.env"} {
		err := godotenv.Load(name)
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("LoadEnvFiles: %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8000"),
		CORSOrigins:       getEnvList("CORS_ORIGINS", DefaultCORSOrigins),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		ChatRatePerMinute: getEnvInt("CHAT_RATE_PER_MINUTE", 30),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", llm.DefaultModel),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", llm.DefaultBaseURL),
		GeminiTimeout:   getEnvDuration("GEMINI_TIMEOUT", llm.DefaultTimeout),
		GeminiTransport: getEnv("GEMINI_TRANSPORT", llm.TransportREST),

		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
	}
}

// LLM returns the generative client settings.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		APIKey:    c.GeminiAPIKey,
		Model:     c.GeminiModel,
		BaseURL:   c.GeminiBaseURL,
		Timeout:   c.GeminiTimeout,
		Transport: c.GeminiTransport,
	}
}

// Validate validates the configuration and returns an error listing every problem.
// A missing GEMINI_API_KEY is not an error: chat then answers "not configured".
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.MaxUploadBytes < 1 {
		problems = append(problems, fmt.Sprintf("invalid max upload size %d: must be positive", c.MaxUploadBytes))
	}

	if c.ChatRatePerMinute < 1 {
		problems = append(problems, fmt.Sprintf("invalid chat rate %d: must be at least 1 per minute", c.ChatRatePerMinute))
	}

	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			continue
		}
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("invalid CORS origin '%s'", origin))
		}
	}

	if u, err := url.Parse(c.GeminiBaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid Gemini base URL '%s': %v", c.GeminiBaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid Gemini base URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.GeminiModel == "" {
		problems = append(problems, "Gemini model cannot be empty")
	}

	if c.GeminiTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid Gemini timeout %v: must be positive", c.GeminiTimeout))
	}

	if c.GeminiTransport != llm.TransportREST && c.GeminiTransport != llm.TransportSDK {
		problems = append(problems, fmt.Sprintf("invalid Gemini transport '%s': must be one of [%s %s]",
			c.GeminiTransport, llm.TransportREST, llm.TransportSDK))
	}

	if c.GCSCredentialsFile != "" {
		if _, err := os.Stat(c.GCSCredentialsFile); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("GCS credentials file does not exist: %s", c.GCSCredentialsFile))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
