package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	AI        AIConfig        `mapstructure:"ai"         validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"      validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int      `mapstructure:"port"                 validate:"required,gt=0,lt=65536"`
	LogLevel           string   `mapstructure:"log_level"            validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`
	Issuer               string `mapstructure:"issuer"`
	Audience             string `mapstructure:"audience"`
	BCryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// AI provider names accepted in AIConfig.Provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// AIConfig contains the settings of the language model used for card generation.
// OpenRouterAPIKey is resolved by Load; see ResolveOpenRouterAPIKey.
type AIConfig struct {
	Provider         string  `mapstructure:"provider"            validate:"required,oneof=openrouter gemini"`
	OpenRouterAPIKey string  `mapstructure:"openrouter_api_key"  validate:"required_if=Provider openrouter"`
	OpenRouterURL    string  `mapstructure:"openrouter_url"      validate:"required,url"`
	GeminiAPIKey     string  `mapstructure:"gemini_api_key"      validate:"required_if=Provider gemini"`
	ModelName        string  `mapstructure:"model_name"          validate:"required"`
	Temperature      float64 `mapstructure:"temperature"         validate:"gte=0,lte=2"`
	MaxTokens        int     `mapstructure:"max_tokens"          validate:"gt=0"`
	MaxRetries       int     `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryBaseDelayMS int     `mapstructure:"retry_base_delay_ms" validate:"gt=0"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"     validate:"gt=0"`
}

// CacheConfig controls the in-process card cache.
type CacheConfig struct {
	CardListExpirationMinutes int `mapstructure:"card_list_expiration_minutes" validate:"gt=0"`
	MaxCardListItems          int `mapstructure:"max_card_list_items"          validate:"gt=0"`
	JanitorIntervalSeconds    int `mapstructure:"janitor_interval_seconds"     validate:"gt=0"`
}

// RateLimitConfig throttles the AI-backed endpoints per user.
type RateLimitConfig struct {
	WindowMinutes        int `mapstructure:"window_minutes"          validate:"gt=0"`
	MaxRequestsPerWindow int `mapstructure:"max_requests_per_window" validate:"gt=0"`
}
