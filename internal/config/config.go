package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GRAPHDESK_*). A .env file in the
// working directory is loaded first, if present.
func Load(path string) (*Config, error) {
	godotenv.Load()

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: GRAPHDESK_BACKEND_URL -> backend_url, etc.
	if err := k.Load(env.Provider("GRAPHDESK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GRAPHDESK_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validAssistantModes is the set of recognized assistant mode values.
var validAssistantModes = map[AssistantMode]bool{
	AssistGraphRAG: true,
	AssistOpenAI:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend_url %q: must be an absolute http(s) URL", c.BackendURL)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Assistant.Mode != "" && !validAssistantModes[c.Assistant.Mode] {
		return fmt.Errorf("invalid assistant mode %q: must be one of graphrag, openai", c.Assistant.Mode)
	}

	if c.Assistant.Mode == AssistOpenAI && c.Assistant.Model == "" {
		return fmt.Errorf("assistant model is required when mode is openai")
	}

	if c.Gateway.Port < 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("invalid gateway port %d", c.Gateway.Port)
	}

	if c.Upload.MaxFileSize < 0 {
		return fmt.Errorf("upload max_file_size must be non-negative")
	}

	return nil
}

// OpenAIAPIKey returns the OpenAI API key from the environment, used for
// the direct assistant mode and local similarity embeddings.
func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
