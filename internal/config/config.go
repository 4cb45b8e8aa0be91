package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"cafe-bot/internal/notify"
)

// Config holds the application configuration
type Config struct {
	HTTPAddr     string
	FrontendURL  string
	DataDir      string
	DBPath       string
	OperatorJID  string
	CountryCode  string
	BusinessName string
	SlotLimit    int
	SMTP         notify.SMTPConfig
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables, falling back to defaults.
func LoadConfig() *Config {
	// Same convention as the old Node backend: a .env next to the binary.
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":3000"),
		FrontendURL:  getEnv("FRONTEND_URL", "https://example.netlify.app"),
		DataDir:      getEnv("DATA_DIR", "data"),
		DBPath:       getEnv("DB_PATH", "data/cafe.db"),
		OperatorJID:  getEnv("OPERATOR_JID", ""),
		CountryCode:  getEnv("COUNTRY_CODE", "55"),
		BusinessName: getEnv("BUSINESS_NAME", "Nonna Nita"),
		SlotLimit:    getEnvAsInt("SLOT_LIMIT", 10),
		SMTP: notify.SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("EMAIL_FROM", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
