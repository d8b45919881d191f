package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TENXCARDS"

// OpenRouterAPIKeyEnv overrides ai.openrouter_api_key when set.
const OpenRouterAPIKeyEnv = "TENXCARDS_OPENROUTER_API_KEY"

// keys without defaults still need to be known to viper for Unmarshal to see their env values
var envOnlyKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"ai.openrouter_api_key",
	"ai.gemini_api_key",
}

// Load configuration from an optional .env file, an optional config.yaml and
// environment variables. Environment variables take precedence over values
// from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.AI.OpenRouterAPIKey = ResolveOpenRouterAPIKey(os.Getenv, cfg.AI.OpenRouterAPIKey)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ResolveOpenRouterAPIKey applies the key resolution order: the dedicated
// environment variable, then the configured value, then empty.
func ResolveOpenRouterAPIKey(getenv func(string) string, configured string) string {
	if key := strings.TrimSpace(getenv(OpenRouterAPIKeyEnv)); key != "" {
		return key
	}
	return strings.TrimSpace(configured)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.issuer", "tenxcards")
	v.SetDefault("auth.audience", "tenxcards-api")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("ai.provider", ProviderOpenRouter)
	v.SetDefault("ai.openrouter_url", "https://openrouter.ai")
	v.SetDefault("ai.model_name", "openai/gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 2000)
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.retry_base_delay_ms", 2000)
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("cache.card_list_expiration_minutes", 5)
	v.SetDefault("cache.max_card_list_items", 1000)
	v.SetDefault("cache.janitor_interval_seconds", 60)

	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("rate_limit.max_requests_per_window", 30)
}
