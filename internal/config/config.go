package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabasePath string // SQLite file path, created on first start
	PersonaFile  string // YAML persona definition, optional

	// Provider configuration. An empty APIKey switches the response
	// generator to offline mode; it never prevents startup.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	AllowedOrigins string
	ServeFrontend  bool
	FrontendDir    string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/solace.db"),
		PersonaFile:  getEnv("PERSONA_FILE", "./persona.yaml"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		ServeFrontend:  getBoolEnv("SERVE_FRONTEND", true),
		FrontendDir:    getEnv("FRONTEND_DIR", "./public"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
