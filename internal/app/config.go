package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, populated from the environment
// (with an optional .env file for local development).
type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"authd.db"`

	// JWTSecret signs session tokens. There is no default: a missing secret
	// is a fatal configuration error at startup.
	JWTSecret  string        `env:"AUTH_JWT_SECRET"`
	Issuer     string        `env:"AUTH_ISSUER" envDefault:"authd"`
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"168h"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	TwitterBearerToken string `env:"TWITTER_BEARER_TOKEN"`
	AnthropicAPIKey    string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey       string `env:"OPENAI_API_KEY"`

	// Provider base URLs are overridable for testing against fakes.
	TwitterBaseURL   string `env:"TWITTER_BASE_URL"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
