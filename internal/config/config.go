package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GinMode       string
	PostgresURL   string
	AutoMigrate   bool
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	LLMProvider   string
	LLMAPIKey     string
	LLMModel      string
	AITimeout     time.Duration
	PlaceCacheTTL time.Duration
}

// Load reads the process environment, after merging a .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	provider := strings.ToLower(getEnvWithDefault("LLM_PROVIDER", "openai"))

	var apiKey, model string
	switch provider {
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	default:
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	}

	return Config{
		Port:          getEnvWithDefault("PORT", "8080"),
		GinMode:       getEnvWithDefault("GIN_MODE", "debug"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		AutoMigrate:   getBool("DB_AUTO_MIGRATE", true),
		JWTSecret:     getEnvWithDefault("JWT_SECRET", "fallback_secret"),
		TokenTTL:      getDuration("JWT_TTL", time.Hour),
		CORSOrigins:   splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),
		LLMProvider:   provider,
		LLMAPIKey:     apiKey,
		LLMModel:      model,
		AITimeout:     getDuration("AI_TIMEOUT", 30*time.Second),
		PlaceCacheTTL: getDuration("PLACE_CACHE_TTL", 5*time.Minute),
	}
}

func (c Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getDuration accepts Go durations ("45s") or plain seconds ("45").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
