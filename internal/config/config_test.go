package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Providers = map[string]ProviderConfig{
		"openai":    {Backend: "openai", Model: "gpt-4o-mini", APIKey: "sk-test"},
		"anthropic": {Backend: "anthropic", Model: "claude-3-haiku-20240307", APIKey: "sk-ant"},
		"gemini":    {Backend: "gemini", Model: "gemini-1.5-flash", APIKey: "g-test"},
		"local":     {Backend: "ollama", Model: "llama3"},
	}
	cfg.FactCheck.Panel = []string{"openai", "anthropic", "gemini"}
	cfg.Trends.TopicsProvider = "openai"
	cfg.Trends.KeywordsProvider = "anthropic"
	return cfg
}

func TestValidateAccepts(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidatePanelSize(t *testing.T) {
	cfg := validConfig()
	cfg.FactCheck.Panel = []string{"openai", "anthropic"}
	assert.ErrorContains(t, cfg.Validate(), "exactly 3")
}

func TestValidatePanelUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.FactCheck.Panel = []string{"openai", "anthropic", "mystery"}
	assert.ErrorContains(t, cfg.Validate(), "unknown provider")
}

func TestValidatePanelDuplicate(t *testing.T) {
	cfg := validConfig()
	cfg.FactCheck.Panel = []string{"openai", "openai", "gemini"}
	assert.ErrorContains(t, cfg.Validate(), "twice")
}

func TestValidateMissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Providers["openai"] = ProviderConfig{Backend: "openai"}
	assert.ErrorContains(t, cfg.Validate(), "API key")
}

func TestValidateOllamaNeedsNoKey(t *testing.T) {
	cfg := validConfig()
	cfg.FactCheck.Panel = []string{"local", "anthropic", "gemini"}
	assert.NoError(t, cfg.Validate())
}

func TestValidateMissingSpecialist(t *testing.T) {
	cfg := validConfig()
	cfg.Trends.KeywordsProvider = ""
	assert.ErrorContains(t, cfg.Validate(), "keywords_provider")
}

func TestLoadInterpolatesEnv(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")

	content := `
providers:
  openai:
    backend: openai
    model: gpt-4o-mini
    api_key: ${TEST_OPENAI_KEY}
  anthropic:
    backend: anthropic
    api_key: sk-ant
  gemini:
    backend: gemini
    api_key: g-test
fact_check:
  panel: [openai, anthropic, gemini]
trends:
  topics_provider: openai
  keywords_provider: anthropic
`
	path := filepath.Join(t.TempDir(), "consensus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Providers["openai"].APIKey)

	// Defaults survive a partial file.
	assert.Equal(t, 45, cfg.FactCheck.TimeoutSeconds)
	assert.Equal(t, 50, cfg.Trends.CorpusLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestGenerateSampleRoundTrips(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-sample")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-sample")
	t.Setenv("GEMINI_API_KEY", "g-sample")

	path := filepath.Join(t.TempDir(), "consensus.yaml")
	require.NoError(t, GenerateSample(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.FactCheck.Panel, 3)
	assert.Equal(t, "sk-sample", cfg.Providers["openai"].APIKey)
}
