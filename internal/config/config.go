package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmoreno/storyquiz/internal/llm"
	"github.com/dmoreno/storyquiz/internal/questgen"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Config is the full application configuration. Durations are expressed in
// seconds or minutes in the YAML and converted when the typed configs are
// assembled.
type Config struct {
	Database   Database   `yaml:"database"`
	JobStatus  JobStatus  `yaml:"job_status"`
	User       User       `yaml:"user"`
	LLM        LLM        `yaml:"llm"`
	Generation Generation `yaml:"generation"`
	Logging    Logging    `yaml:"logging"`
}

type Database struct {
	// Path to the SQLite file. Empty means the default XDG location.
	Path string `yaml:"path"`
}

type JobStatus struct {
	// Dir holds one JSON record per in-flight generation job.
	Dir string `yaml:"dir"`

	// TimeoutMinutes expires in-progress jobs on poll.
	TimeoutMinutes int `yaml:"timeout_minutes"`
}

// User is the fixed identity the system runs under.
type User struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

type LLM struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Generation struct {
	Subject        string `yaml:"subject"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for storyquiz.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "storyquiz")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/storyquiz/config.yaml > ./config.yaml.
// An empty result means no file was found and defaults apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads the config file at path, or only the embedded defaults when
// path is empty.
func Load(path string) (*Config, error) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		return nil, fmt.Errorf("parsing default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LLMConfig assembles the typed generation-service config, resolving the
// API key from the configured environment variable and applying the
// STORYQUIZ_* overrides.
func (c *Config) LLMConfig() llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
	}
	if c.LLM.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.LLM.TimeoutSeconds) * time.Second
	}

	key := ""
	if c.LLM.APIKeyEnv != "" {
		key = os.Getenv(c.LLM.APIKeyEnv)
	}
	switch cfg.Provider {
	case "openai":
		if c.LLM.Model != "" {
			cfg.OpenAI.Model = c.LLM.Model
		}
		if c.LLM.BaseURL != "" {
			cfg.OpenAI.BaseURL = c.LLM.BaseURL
		}
		if key != "" {
			cfg.OpenAI.APIKey = key
		}
	case "anthropic":
		if c.LLM.Model != "" {
			cfg.Anthropic.Model = c.LLM.Model
		}
		if key != "" {
			cfg.Anthropic.APIKey = key
		}
	case "gemini":
		if c.LLM.Model != "" {
			cfg.Gemini.Model = c.LLM.Model
		}
		if key != "" {
			cfg.Gemini.APIKey = key
		}
	}

	cfg.ApplyEnv()
	return cfg
}

// GenerationConfig assembles the typed worker config.
func (c *Config) GenerationConfig() questgen.Config {
	cfg := questgen.DefaultConfig()
	if c.Generation.Subject != "" {
		cfg.Subject = c.Generation.Subject
	}
	if c.Generation.MaxTokens > 0 {
		cfg.MaxTokens = c.Generation.MaxTokens
	}
	if c.Generation.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.Generation.TimeoutSeconds) * time.Second
	}
	return cfg
}

// JobTimeout returns the poll-expiry bound for generation jobs.
func (c *Config) JobTimeout() time.Duration {
	if c.JobStatus.TimeoutMinutes > 0 {
		return time.Duration(c.JobStatus.TimeoutMinutes) * time.Minute
	}
	return 10 * time.Minute
}

// StatusDir returns the job status directory, defaulting next to the data
// dir.
func (c *Config) StatusDir() string {
	if c.JobStatus.Dir != "" {
		return c.JobStatus.Dir
	}
	return filepath.Join(homeDir(), ".local", "share", "storyquiz", "task_statuses")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
