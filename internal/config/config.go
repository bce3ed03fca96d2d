package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	ModelPath     string
	PredictionLog string // Append-only CSV of single predictions
	BatchOutDir   string // Default directory for scheduled batch results
	JWTSecret     string
	AllowedOrigin string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./diapredict.db"),
		ModelPath:     getEnv("MODEL_PATH", "./diabetes_model.json"),
		PredictionLog: getEnv("PREDICTION_LOG", "./diabetes_predictions.csv"),
		BatchOutDir:   getEnv("BATCH_OUT_DIR", "./batch-results"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
