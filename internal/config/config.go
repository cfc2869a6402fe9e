package config

import "os"

// Config holds everything the server reads from the environment. godotenv is
// loaded by main before this runs, so a local .env works the same as real
// env vars.
type Config struct {
	MongoURI string
	DBName   string
	Port     string
	LogLevel string

	// Analysis API (OpenAI-compatible endpoint).
	AnalysisBaseURL   string
	AnalysisAPIKey    string
	AnalysisModel     string
	AnalysisMaxTokens int
}

func Load() *Config {
	return &Config{
		MongoURI: getEnv("MONGODB_URI", ""),
		DBName:   getEnv("DB_NAME", "axiom"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AnalysisBaseURL:   getEnv("ANALYSIS_BASE_URL", ""),
		AnalysisAPIKey:    getEnv("ANALYSIS_API_KEY", ""),
		AnalysisModel:     getEnv("ANALYSIS_MODEL", "gpt-4o-mini"),
		AnalysisMaxTokens: 1024,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
