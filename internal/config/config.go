package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by RequireCredential when OPENAI_API_KEY is unset.
var ErrMissingAPIKey = errors.New("missing OpenAI API key")

// Config stores all configuration of a chat service.
// Values come from the environment, an optional .env file, or the file named by CHAT_CONFIG_FILE.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	OpenAI  OpenAIConfig
	Session SessionConfig

	// LLMStub swaps the OpenAI client for a canned one.
	LLMStub         bool
	ShutdownTimeout time.Duration
}

// OpenAIConfig stores the completion API settings.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	// Model is the default model for new sessions.
	Model string
}

// SessionConfig stores chat session settings.
type SessionConfig struct {
	// TTL is how long an idle session lives. Zero keeps sessions until the process exits.
	TTL           time.Duration
	SweepInterval time.Duration
	CookieSecure  bool
}

// Load reads the configuration. defaultPort is used when PORT is unset.
func Load(defaultPort string) (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("port", defaultPort)
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("chat_model", "gpt-4o-mini")
	v.SetDefault("llm_stub", false)
	v.SetDefault("session_ttl", "2h")
	v.SetDefault("session_sweep_interval", "5m")
	v.SetDefault("session_cookie_secure", false)
	v.SetDefault("shutdown_timeout", "10s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CHAT_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		Env:      strings.ToLower(v.GetString("app_env")),
		LogLevel: v.GetString("log_level"),
		OpenAI: OpenAIConfig{
			APIKey:  strings.TrimSpace(v.GetString("openai_api_key")),
			BaseURL: v.GetString("openai_base_url"),
			Model:   v.GetString("chat_model"),
		},
		Session: SessionConfig{
			TTL:           v.GetDuration("session_ttl"),
			SweepInterval: v.GetDuration("session_sweep_interval"),
			CookieSecure:  v.GetBool("session_cookie_secure"),
		},
		LLMStub:         v.GetBool("llm_stub"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	}
	if cfg.Session.TTL < 0 || cfg.Session.SweepInterval < 0 {
		return Config{}, fmt.Errorf("session durations must not be negative")
	}
	return cfg, nil
}

// RequireCredential fails when no API key is configured.
func (c Config) RequireCredential() error {
	if c.OpenAI.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// IsDevelopment reports whether the service runs on a developer machine.
func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
