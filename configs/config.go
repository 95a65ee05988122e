// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	// OCR provider configuration
	OCR_PROVIDER   string // "gemini" or "mistral"
	GEMINI_API_KEY string
	OCR_MODEL_NAME string

	MISTRAL_API_KEY    string
	MISTRAL_MODEL_NAME string

	// OCR pricing (per 1M tokens in USD)
	OCR_INPUT_PRICE_PER_MILLION  float64
	OCR_OUTPUT_PRICE_PER_MILLION float64

	// Advisory model configuration
	ADVISOR_MODEL_NAME string

	// Advisory pricing (per 1M tokens in USD)
	ADVISOR_INPUT_PRICE_PER_MILLION  float64
	ADVISOR_OUTPUT_PRICE_PER_MILLION float64

	// Daily budget for the advisory feature
	DAILY_BUDGET_USD float64
	BUDGET_FAIL_OPEN bool // allow advisory calls when the ledger cannot be read

	// Ledger storage backend
	LEDGER_BACKEND     string // "sqlite" or "mongo"
	LEDGER_SQLITE_PATH string

	// Server configuration
	PORT            string
	UPLOAD_DIR      string
	ALLOWED_ORIGINS string

	// MongoDB configuration
	MONGO_URI     string
	MONGO_DB_NAME string

	// OCR call tuning
	OCR_TIMEOUT int // seconds
)

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	OCR_PROVIDER = getEnv("OCR_PROVIDER", "gemini")

	// Required: Gemini API key (OCR and advisory both default to Gemini)
	GEMINI_API_KEY = getEnv("GEMINI_API_KEY", "")
	if GEMINI_API_KEY == "" && OCR_PROVIDER == "gemini" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	OCR_MODEL_NAME = getEnv("OCR_MODEL_NAME", "gemini-2.5-flash")
	MISTRAL_API_KEY = getEnv("MISTRAL_API_KEY", "")
	MISTRAL_MODEL_NAME = getEnv("MISTRAL_MODEL_NAME", "mistral-ocr-latest")

	// OCR pricing (default to Flash pricing)
	OCR_INPUT_PRICE_PER_MILLION = getEnvFloat("OCR_INPUT_PRICE_PER_MILLION", 0.30)
	OCR_OUTPUT_PRICE_PER_MILLION = getEnvFloat("OCR_OUTPUT_PRICE_PER_MILLION", 2.50)

	ADVISOR_MODEL_NAME = getEnv("ADVISOR_MODEL_NAME", "gemini-2.5-flash")

	// Advisory pricing (default to Flash pricing)
	ADVISOR_INPUT_PRICE_PER_MILLION = getEnvFloat("ADVISOR_INPUT_PRICE_PER_MILLION", 0.30)
	ADVISOR_OUTPUT_PRICE_PER_MILLION = getEnvFloat("ADVISOR_OUTPUT_PRICE_PER_MILLION", 2.50)

	DAILY_BUDGET_USD = getEnvFloat("DAILY_BUDGET_USD", 5.00)
	BUDGET_FAIL_OPEN = getEnvBool("BUDGET_FAIL_OPEN", true)

	LEDGER_BACKEND = getEnv("LEDGER_BACKEND", "sqlite")
	LEDGER_SQLITE_PATH = getEnv("LEDGER_SQLITE_PATH", "data/usage.sqlite")

	PORT = getEnv("PORT", "8080")
	UPLOAD_DIR = getEnv("UPLOAD_DIR", "uploads")
	ALLOWED_ORIGINS = getEnv("ALLOWED_ORIGINS", "*")

	// MongoDB configuration
	MONGO_URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	MONGO_DB_NAME = getEnv("MONGO_DB_NAME", "tabsy")

	OCR_TIMEOUT = getEnvInt("OCR_TIMEOUT", 45)

	log.Println("✓ Configuration loaded successfully")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
