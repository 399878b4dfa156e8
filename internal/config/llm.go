package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Veraticus/pennywise/internal/llm"
)

// LoadLLMConfig assembles the completion-client configuration. Precedence:
// 1. Viper configuration (config file or PENNYWISE_ env vars)
// 2. Provider-specific environment variables (ANTHROPIC_API_KEY, OPENAI_API_KEY)
// 3. Defaults
func LoadLLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:    "anthropic",
		Model:       "claude-3-5-sonnet-20241022",
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	if v := viper.GetString("llm.provider"); v != "" {
		cfg.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.Model = v
	} else if cfg.Provider == "openai" {
		cfg.Model = "gpt-4o-mini"
	}
	if v := viper.GetString("llm.api_key"); v != "" {
		cfg.APIKey = v
	}
	if viper.IsSet("llm.temperature") {
		cfg.Temperature = viper.GetFloat64("llm.temperature")
	}
	if viper.IsSet("llm.max_tokens") {
		cfg.MaxTokens = viper.GetInt("llm.max_tokens")
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	return cfg
}

// DatabasePath returns the configured SQLite path, defaulting to the
// user's home data directory.
func DatabasePath() string {
	if v := viper.GetString("database.path"); v != "" {
		return ExpandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pennywise.db"
	}
	return filepath.Join(home, ".local", "share", "pennywise", "pennywise.db")
}
