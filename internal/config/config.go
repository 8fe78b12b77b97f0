package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Errors returned by EndpointRegistry.Lookup
var (
	ErrUnknownModel  = errors.New("model has no endpoint mapping")
	ErrEmptyEndpoint = errors.New("model endpoint is empty")
	// ErrInvalidEndpoint marks an endpoint that is not an absolute http(s) URL
	ErrInvalidEndpoint = errors.New("model endpoint is not a valid http(s) URL")
)

// DefaultAgiModels are the AGI model names known out of the box. Their endpoints
// must be supplied by configuration.
var DefaultAgiModels = []string{"agi-7B", "agi-13B", "agi-17B", "agi-30B", "agi-65B"}

// Config represents the configuration for the completion adapter
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	OpenAI    OpenAIConfig     `yaml:"openai"`
	Retry     RetryConfig      `yaml:"retry"`
	Agi       AgiConfig        `yaml:"agi"`
	Endpoints EndpointRegistry `yaml:"endpoints"`
	Log       LogConfig        `yaml:"log"`
}

// ServerConfig contains the HTTP front-end settings
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"`
}

// OpenAIConfig contains the upstream completion API settings
type OpenAIConfig struct {
	APIBase      string        `yaml:"api_base"`
	APIKey       string        `yaml:"api_key"`
	Organization string        `yaml:"organization,omitempty"`
	Timeout      time.Duration `yaml:"timeout"`
}

// RetryConfig is the exponential backoff schedule for the upstream API
type RetryConfig struct {
	InitialInterval time.Duration `yaml:"initial_interval"`
	Multiplier      float64       `yaml:"multiplier"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

// AgiConfig contains settings for the AGI HTTP backend
type AgiConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LogConfig selects the log level by name (debug, info, warn, error)
type LogConfig struct {
	Level string `yaml:"level"`
}

// EndpointRegistry maps an AGI model name to its HTTP endpoint
type EndpointRegistry map[string]string

// Lookup returns the endpoint configured for model.
func (r EndpointRegistry) Lookup(model string) (string, error) {
	endpoint, ok := r[model]
	if !ok {
		return "", fmt.Errorf("%q: %w", model, ErrUnknownModel)
	}
	if endpoint == "" {
		return "", fmt.Errorf("%q: %w", model, ErrEmptyEndpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%q: %w: %q", model, ErrInvalidEndpoint, endpoint)
	}
	return endpoint, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued settings
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.OpenAI.APIBase == "" {
		c.OpenAI.APIBase = "https://api.openai.com/v1"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 10 * time.Minute
	}
	if c.Retry.InitialInterval == 0 {
		c.Retry.InitialInterval = time.Second
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 1.5
	}
	if c.Retry.MaxInterval == 0 {
		c.Retry.MaxInterval = 60 * time.Second
	}
	if c.Agi.MaxRetries == 0 {
		c.Agi.MaxRetries = 10
	}
	if c.Agi.RetryDelay == 0 {
		c.Agi.RetryDelay = time.Second
	}
	if c.Agi.Timeout == 0 {
		c.Agi.Timeout = 5 * time.Minute
	}
	if c.Endpoints == nil {
		c.Endpoints = EndpointRegistry{}
		for _, model := range DefaultAgiModels {
			c.Endpoints[model] = ""
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ApplyEnv overrides secrets and the API base from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_BASE"); v != "" {
		c.OpenAI.APIBase = v
	}
	if v := os.Getenv("OPENAI_ORGANIZATION"); v != "" {
		c.OpenAI.Organization = v
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	cfg.ApplyEnv()
	return &cfg, nil
}

// LoadDotEnv loads environment variables from path. Missing files are ignored.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
