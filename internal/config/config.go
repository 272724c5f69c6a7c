package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database (optional; suggestions fall back to the demo dataset without it)
	DatabaseURL string

	// Redis (optional; headline caching and live updates are disabled without it)
	RedisURL string

	// Gemini AI. The API key is optional at startup: a missing key means every
	// generation degrades to its fallback until a visitor supplies one.
	GeminiAPIKey         string
	GeminiTextModel      string
	GeminiImageModel     string
	GeminiConcurrentReqs int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiTextModel:      getEnvOrDefault("GEMINI_TEXT_MODEL", "gemini-3-flash-preview"),
		GeminiImageModel:     getEnvOrDefault("GEMINI_IMAGE_MODEL", "gemini-2.0-flash-preview-image-generation"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
