package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("PW_TEST_DIR", "/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde only", in: "~", want: home},
		{name: "tilde prefix", in: "~/db/pennywise.db", want: filepath.Join(home, "db", "pennywise.db")},
		{name: "env var", in: "$PW_TEST_DIR/pennywise.db", want: "/data/pennywise.db"},
		{name: "plain path untouched", in: "/var/lib/pennywise.db", want: "/var/lib/pennywise.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadLLMConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg := LoadLLMConfig()
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 1024, cfg.MaxTokens)
}

func TestLoadLLMConfigViperOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("llm.provider", "openai")
	viper.Set("llm.api_key", "sk-from-config")
	viper.Set("llm.max_tokens", 512)

	cfg := LoadLLMConfig()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model, "openai gets its own default model")
	assert.Equal(t, "sk-from-config", cfg.APIKey)
	assert.Equal(t, 512, cfg.MaxTokens)
}

func TestDatabasePathConfigured(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("database.path", "/tmp/custom.db")
	assert.Equal(t, "/tmp/custom.db", DatabasePath())
}
