package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	SessionDuration time.Duration
	TokenSecret     string
	LogLevel        string
	Environment     string
	ClientOrigin    string
	TrustProxy      bool
	MaxOpenGames    int
	MaxBoardSize    int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./hobbyte.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SessionDuration: getDuration("SESSION_DURATION", 24*time.Hour),
		TokenSecret:     getEnv("TOKEN_SECRET", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Environment:     getEnv("APP_ENV", "production"),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "*"),
		TrustProxy:      getBool("TRUST_PROXY", false),
		MaxOpenGames:    getInt("MAX_OPEN_GAMES", 2),
		MaxBoardSize:    getInt("MAX_BOARD_SIZE", 50),
	}
}

// IsDevelopment reports whether the service runs with development defaults
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
