package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey string
	DatabaseURL  string
	HTTPPort     string
	LogLevel     string
	JWTSecret    string
	ChunkSize    int
	ChunkOverlap int
	AdminUsers   []string // External user IDs granted the admin role
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:  getEnv("DATABASE_URL", "mesob_chatbot.db"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		ChunkSize:    getEnvAsInt("CHUNK_SIZE", 2000),
		ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),
		AdminUsers:   getEnvAsList("ADMIN_USERS"),
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
}

// IsAdminUser reports whether the external user ID is configured as an admin.
func IsAdminUser(externalUserID string) bool {
	for _, id := range AppConfig.AdminUsers {
		if id == externalUserID {
			return true
		}
	}
	return false
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
