package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	LLM      LLMConfig      `yaml:"llm"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"HTTP_ADDR"        env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LLMConfig configures the generation provider.
// GoogleAPIKey wins over GenerativeAIAPIKey when both are set.
type LLMConfig struct {
	GoogleAPIKey       string        `yaml:"google_api_key"        env:"GOOGLE_API_KEY"`
	GenerativeAIAPIKey string        `yaml:"generative_ai_api_key" env:"GOOGLE_GENERATIVE_AI_API_KEY"`
	BaseURL            string        `yaml:"base_url"              env:"LLM_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	Model              string        `yaml:"model"                 env:"LLM_MODEL"    env-default:"gemini-2.5-flash"`
	Timeout            time.Duration `yaml:"timeout"               env:"LLM_TIMEOUT"  env-default:"60s"`
	FortuneYear        int           `yaml:"fortune_year"          env:"FORTUNE_YEAR" env-default:"2026"`
}

// APIKey returns the first non-empty provider credential.
func (c LLMConfig) APIKey() string {
	if k := strings.TrimSpace(c.GoogleAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(c.GenerativeAIAPIKey)
}

// DatabaseConfig holds PostgreSQL settings. An empty URL disables persistence.
type DatabaseConfig struct {
	URL      string `yaml:"url"       env:"DB_URL"`
	MaxConns int32  `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
}

// Enabled reports whether a document store is configured.
func (c DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

// AuthConfig configures bearer-token verification of the identity provider's tokens.
type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"     env:"AUTH_JWT_SECRET"`
	JWTPublicKey string `yaml:"jwt_public_key" env:"AUTH_JWT_PUBLIC_KEY"`
	JWTIssuer    string `yaml:"jwt_issuer"     env:"AUTH_JWT_ISSUER"`
}

// CORSConfig holds CORS settings for the browser client.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Origins splits AllowedOrigins on commas.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from an optional YAML file and environment variables.
// Priority: ENV > YAML > defaults. The file path comes from CONFIG_PATH
// (fallback "./config.yaml"); a missing default file is not an error.
func Load() (Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return Config{}, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

// Validate checks values that cleanenv cannot express with tags.
// A missing provider key is not an error here: the service starts
// unconfigured and rejects generation requests instead.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("LLM_TIMEOUT must be positive")
	}
	if c.LLM.FortuneYear < 1 {
		return errors.New("FORTUNE_YEAR must be positive")
	}
	if c.Database.MaxConns < 1 {
		return errors.New("DB_MAX_CONNS must be at least 1")
	}
	if c.Auth.JWTSecret != "" && c.Auth.JWTPublicKey != "" {
		return errors.New("set only one of AUTH_JWT_SECRET and AUTH_JWT_PUBLIC_KEY")
	}
	return nil
}
