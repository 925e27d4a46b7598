// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
	FactCheck FactCheckConfig           `yaml:"fact_check"`
	Trends    TrendsConfig              `yaml:"trends"`
	Content   ContentConfig             `yaml:"content"`
	Logging   LoggingConfig             `yaml:"logging"`
}

// ProviderConfig describes one inference backend in the panel.
type ProviderConfig struct {
	Backend string `yaml:"backend"` // openai, anthropic, gemini, ollama
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // for ollama
}

// FactCheckConfig configures the redundant-voting flow.
type FactCheckConfig struct {
	Panel          []string `yaml:"panel"` // exactly three provider names
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// TrendsConfig configures the specialization flow.
type TrendsConfig struct {
	TopicsProvider   string `yaml:"topics_provider"`
	KeywordsProvider string `yaml:"keywords_provider"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	CorpusLimit      int    `yaml:"corpus_limit"` // per item kind
}

// ContentConfig points at the platform content database read by the trends flow.
type ContentConfig struct {
	Driver string `yaml:"driver"` // sqlite
	Path   string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderConfig{},
		FactCheck: FactCheckConfig{
			TimeoutSeconds: 45,
		},
		Trends: TrendsConfig{
			TimeoutSeconds: 60,
			CorpusLimit:    50,
		},
		Content: ContentConfig{
			Driver: "sqlite",
			Path:   "./data/content.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run init-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# Consensus engine configuration
# See documentation for all options

providers:
  openai:
    backend: openai
    model: gpt-4o-mini
    api_key: ${OPENAI_API_KEY}
  anthropic:
    backend: anthropic
    model: claude-3-haiku-20240307
    api_key: ${ANTHROPIC_API_KEY}
  gemini:
    backend: gemini
    model: gemini-1.5-flash
    api_key: ${GEMINI_API_KEY}

  # For a local model via Ollama:
  # local:
  #   backend: ollama
  #   model: llama3
  #   base_url: http://localhost:11434

fact_check:
  # Exactly three independent providers vote on each claim.
  panel: [openai, anthropic, gemini]
  timeout_seconds: 45

trends:
  topics_provider: openai
  keywords_provider: anthropic
  timeout_seconds: 60
  corpus_limit: 50

content:
  driver: sqlite
  path: ./data/content.db

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

var validBackends = map[string]bool{"openai": true, "anthropic": true, "gemini": true, "ollama": true}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	for name, p := range c.Providers {
		if !validBackends[p.Backend] {
			return fmt.Errorf("provider %q: unsupported backend %q", name, p.Backend)
		}
		// Hosted backends require credentials; ollama is local.
		if p.Backend != "ollama" && p.APIKey == "" {
			return fmt.Errorf("provider %q: API key is required for backend %q", name, p.Backend)
		}
	}

	if len(c.FactCheck.Panel) != 3 {
		return fmt.Errorf("fact_check.panel must name exactly 3 providers, got %d", len(c.FactCheck.Panel))
	}
	seen := map[string]bool{}
	for _, name := range c.FactCheck.Panel {
		if _, ok := c.Providers[name]; !ok {
			return fmt.Errorf("fact_check.panel references unknown provider %q", name)
		}
		if seen[name] {
			return fmt.Errorf("fact_check.panel lists provider %q twice", name)
		}
		seen[name] = true
	}

	for _, name := range []string{c.Trends.TopicsProvider, c.Trends.KeywordsProvider} {
		if name == "" {
			return fmt.Errorf("trends requires both topics_provider and keywords_provider")
		}
		if _, ok := c.Providers[name]; !ok {
			return fmt.Errorf("trends references unknown provider %q", name)
		}
	}

	if c.Content.Driver != "sqlite" {
		return fmt.Errorf("unsupported content driver: %s", c.Content.Driver)
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // keep original if not set
	})
}
