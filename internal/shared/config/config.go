package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port                    string
	CORSAllowOrigin         []string
	Env                     string
	Generator               string
	GenerationAPIURL        string
	GenerationTimeout       time.Duration
	OpenAIAPIKey            string
	OpenAIBaseURL           string
	LLMModel                string
	DatabaseURL             string
	PrefsStore              string
	SQLitePath              string
	CatalogFile             string
	RateLimitGeneratePerMin float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	v := viper.New()
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(v, ".env", "cmd/.env")
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("GENERATOR", "remote")
	v.SetDefault("GENERATION_API_URL", "http://localhost:8000/api")
	v.SetDefault("GENERATION_TIMEOUT", "0s")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("PREFS_STORE", "")
	v.SetDefault("SQLITE_PATH", "./data/preferences.db")
	v.SetDefault("RATE_LIMIT_GENERATE_PER_MIN", 6)

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is empty in production; theme preferences will not survive restarts")
	}

	return Config{
		Port:                    v.GetString("PORT"),
		CORSAllowOrigin:         splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		Env:                     env,
		Generator:               normalizeGenerator(v.GetString("GENERATOR")),
		GenerationAPIURL:        strings.TrimRight(strings.TrimSpace(v.GetString("GENERATION_API_URL")), "/"),
		GenerationTimeout:       v.GetDuration("GENERATION_TIMEOUT"),
		OpenAIAPIKey:            strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:           strings.TrimSpace(v.GetString("OPENAI_BASE_URL")),
		LLMModel:                v.GetString("LLM_MODEL"),
		DatabaseURL:             dbURL,
		PrefsStore:              normalizePrefsStore(v.GetString("PREFS_STORE"), dbURL),
		SQLitePath:              v.GetString("SQLITE_PATH"),
		CatalogFile:             strings.TrimSpace(v.GetString("CATALOG_FILE")),
		RateLimitGeneratePerMin: v.GetFloat64("RATE_LIMIT_GENERATE_PER_MIN"),
	}
}

// loadEnvFiles merges KEY=VALUE files into v if they exist. Errors are ignored.
func loadEnvFiles(v *viper.Viper, paths ...string) {
	v.SetConfigType("env")
	for _, path := range paths {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			continue
		}
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeGenerator(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "placeholder", "mock":
		return "placeholder"
	default:
		return "remote"
	}
}

func normalizePrefsStore(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "sqlite":
		return "sqlite"
	case "memory":
		return "memory"
	}
	if dbURL != "" {
		return "postgres"
	}
	return "memory"
}

// IsDevLike reports whether env tolerates degraded dependencies.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
