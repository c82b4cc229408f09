package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends accepted by STORE_BACKEND. An empty value picks the first
// backend whose credential is present.
const (
	BackendAuto      = ""
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// AI providers accepted by AI_PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Port       string `mapstructure:"PORT"`
	Env        string `mapstructure:"ENV"`
	HospitalID string `mapstructure:"HOSPITAL_ID"`

	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DBMaxConns   int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns   int32  `mapstructure:"DB_MIN_CONNS"`

	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseCredentialsJSON string `mapstructure:"FIREBASE_CREDENTIALS_JSON"`

	AIProvider       string        `mapstructure:"AI_PROVIDER"`
	OpenAIAPIKey     string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel      string        `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL    string        `mapstructure:"OPENAI_BASE_URL"`
	AnthropicAPIKey  string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel   string        `mapstructure:"ANTHROPIC_MODEL"`
	AnthropicBaseURL string        `mapstructure:"ANTHROPIC_BASE_URL"`
	GeminiAPIKey     string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string        `mapstructure:"GEMINI_MODEL"`
	AITimeout        time.Duration `mapstructure:"AI_TIMEOUT"`

	// MockMode is kept raw; capability.ResolveTestMode decides what an
	// unparseable value means.
	MockMode string `mapstructure:"MOCK_MODE"`

	IDMapFile string        `mapstructure:"ID_MAP_FILE"`
	RedisURL  string        `mapstructure:"REDIS_URL"`
	CacheTTL  time.Duration `mapstructure:"CACHE_TTL"`

	AuthMode       string   `mapstructure:"AUTH_MODE"`
	AuthSigningKey string   `mapstructure:"AUTH_SIGNING_KEY"`
	AuthIssuer     string   `mapstructure:"AUTH_ISSUER"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

var envKeys = []string{
	"PORT", "ENV", "HOSPITAL_ID",
	"STORE_BACKEND", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"FIREBASE_PROJECT_ID", "FIREBASE_CREDENTIALS_FILE", "FIREBASE_CREDENTIALS_JSON",
	"AI_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "ANTHROPIC_BASE_URL",
	"GEMINI_API_KEY", "GEMINI_MODEL", "AI_TIMEOUT",
	"MOCK_MODE", "ID_MAP_FILE", "REDIS_URL", "CACHE_TTL",
	"AUTH_MODE", "AUTH_SIGNING_KEY", "AUTH_ISSUER",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("HOSPITAL_ID", "hospital_dermai_01")
	v.SetDefault("STORE_BACKEND", BackendAuto)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("AI_PROVIDER", ProviderOpenAI)
	v.SetDefault("OPENAI_MODEL", "gpt-4")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest")
	v.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AI_TIMEOUT", "60s")
	v.SetDefault("CACHE_TTL", "24h")
	v.SetDefault("AUTH_MODE", "") // inferred from ENV
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	// Unmarshal only sees env vars that were bound explicitly.
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	for i := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))

	if cfg.FirebaseCredentialsJSON == "" && cfg.FirebaseCredentialsFile != "" {
		data, err := os.ReadFile(cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read FIREBASE_CREDENTIALS_FILE: %w", err)
		}
		cfg.FirebaseCredentialsJSON = string(data)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedAuthMode returns AUTH_MODE when set, otherwise "development" for
// ENV=development and "jwt" for everything else.
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "development"
	}
	return "jwt"
}

// ResolvedStoreBackend returns the backend to open. Auto mode prefers
// Postgres, then Firestore, and falls back to the in-memory store.
func (c *Config) ResolvedStoreBackend() string {
	if c.StoreBackend != BackendAuto {
		return c.StoreBackend
	}
	switch {
	case c.DatabaseURL != "":
		return BackendPostgres
	case c.FirebaseProjectID != "":
		return BackendFirestore
	default:
		return BackendMemory
	}
}

// StoreCredential returns the credential that decides whether the resolved
// backend can run live.
func (c *Config) StoreCredential() string {
	switch c.ResolvedStoreBackend() {
	case BackendPostgres:
		return c.DatabaseURL
	case BackendFirestore:
		return c.FirebaseProjectID
	default:
		return ""
	}
}

// AICredential returns the API key of the configured provider.
func (c *Config) AICredential() string {
	switch c.AIProvider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// Validate checks that the configuration is safe to run. Missing
// credentials are not errors here; the capability gates turn them into
// mock mode.
func (c *Config) Validate() error {
	switch mode := c.ResolvedAuthMode(); mode {
	case "development":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=development is not allowed with ENV=production")
		}
	case "jwt":
		if c.AuthSigningKey == "" {
			return fmt.Errorf("AUTH_SIGNING_KEY is required when AUTH_MODE is \"jwt\"")
		}
		if len(c.AuthSigningKey) < 32 {
			return fmt.Errorf("AUTH_SIGNING_KEY must be at least 32 bytes, got %d", len(c.AuthSigningKey))
		}
	default:
		return fmt.Errorf("AUTH_MODE must be \"development\" or \"jwt\", got %q", mode)
	}

	switch c.StoreBackend {
	case BackendAuto, BackendPostgres, BackendFirestore, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of postgres, firestore, memory; got %q", c.StoreBackend)
	}

	switch c.AIProvider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("AI_PROVIDER must be one of openai, anthropic, gemini; got %q", c.AIProvider)
	}

	if c.HospitalID == "" {
		return fmt.Errorf("HOSPITAL_ID must not be empty")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
