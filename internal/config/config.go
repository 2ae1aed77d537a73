package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort   string
	OpenAIKey  string
	Model      string
	StorageDir string

	// MaxHistoryMessages caps how many trailing conversation turns are
	// forwarded to the completion provider per request. Zero keeps the
	// whole conversation.
	MaxHistoryMessages int
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	err := godotenv.Load() // Loads .env from the current directory or parent dirs
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	apiKey := getEnv("OPENAI_API_KEY", "")
	if apiKey == "" {
		log.Fatal("FATAL: OPENAI_API_KEY environment variable is not set.")
	}
	model := getEnv("OPENAI_MODEL", "gpt-4o-mini")
	storageDir := getEnv("STORAGE_DIR", ".chat-history")

	maxHistoryStr := getEnv("MAX_HISTORY_MESSAGES", "0")
	maxHistory, err := strconv.Atoi(maxHistoryStr)
	if err != nil || maxHistory < 0 {
		log.Printf("Warning: Invalid MAX_HISTORY_MESSAGES '%s', using 0 (unbounded). Error: %v", maxHistoryStr, err)
		maxHistory = 0
	}

	cfg := &Config{
		HTTPPort:           port,
		OpenAIKey:          apiKey,
		Model:              model,
		StorageDir:         storageDir,
		MaxHistoryMessages: maxHistory,
	}

	log.Printf("Loaded config: Port=%s, Model=%s, StorageDir=%s, MaxHistory=%d, OpenAIKey=***",
		cfg.HTTPPort, cfg.Model, cfg.StorageDir, cfg.MaxHistoryMessages)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Env variable %s not set, using default: %s", key, fallback)
	return fallback
}
