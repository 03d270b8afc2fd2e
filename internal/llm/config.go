package llm

import (
	"os"
	"time"
)

// Config holds all generation service configuration.
type Config struct {
	// Provider selects the backend: "openai", "anthropic", "gemini", "mock".
	// "openai" with a BaseURL also covers any OpenAI-compatible local server.
	Provider string

	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds a single generation call, retries included. Model
	// responses for full question drafts can be slow, so the default is
	// generous.
	Timeout time.Duration
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Points at any OpenAI-compatible endpoint.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. The default
// provider targets a local OpenAI-compatible completions server, which is
// how the generation service is normally deployed.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		OpenAI: OpenAIConfig{
			Model:   "gpt-4o-mini",
			BaseURL: "http://localhost:8000/v1",
			APIKey:  "unused",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku-4-5-20251001",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 400 * time.Second,
	}
}

// ApplyEnv overrides config fields from environment variables.
func (c *Config) ApplyEnv() {
	if p := os.Getenv("STORYQUIZ_LLM_PROVIDER"); p != "" {
		c.Provider = p
	}
	if k := os.Getenv("STORYQUIZ_OPENAI_API_KEY"); k != "" {
		c.OpenAI.APIKey = k
	}
	if m := os.Getenv("STORYQUIZ_OPENAI_MODEL"); m != "" {
		c.OpenAI.Model = m
	}
	if u := os.Getenv("STORYQUIZ_OPENAI_BASE_URL"); u != "" {
		c.OpenAI.BaseURL = u
	}
	if k := os.Getenv("STORYQUIZ_ANTHROPIC_API_KEY"); k != "" {
		c.Anthropic.APIKey = k
	}
	if m := os.Getenv("STORYQUIZ_ANTHROPIC_MODEL"); m != "" {
		c.Anthropic.Model = m
	}
	if k := os.Getenv("STORYQUIZ_GEMINI_API_KEY"); k != "" {
		c.Gemini.APIKey = k
	}
	if m := os.Getenv("STORYQUIZ_GEMINI_MODEL"); m != "" {
		c.Gemini.Model = m
	}
	if d := os.Getenv("STORYQUIZ_LLM_TIMEOUT"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			c.Timeout = parsed
		}
	}
}
