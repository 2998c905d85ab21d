package config

import (
	"encoding/base64"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port          string
	MONGOSTRING   string
	DBName        string
	PASETO_SECRET string
	TokenTTL      time.Duration
	FrontendURL   string
	Timezone      string
	RedisAddr     string
	RedisUser     string
	RedisPassword string
}

// LoadConfig loads configuration from .env file and the process environment.
func LoadConfig() *AppConfig {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: .env file not loaded (might not exist in production): %v", err)
	}

	secretBase64 := getEnv("PASETO_SECRET", "cGFybG91ci1kZXYtc2VjcmV0LW11c3QtYmUtMzJieXQ=")

	secretBytes, err := DecodeSecret(secretBase64)
	if err != nil {
		log.Fatalf("PASETO_SECRET in .env is not a valid Base64 string: %v", err)
	}
	if len(secretBytes) != 32 {
		log.Fatalf("PASETO_SECRET (decoded) must be exactly 32 bytes long. Current length: %d", len(secretBytes))
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		log.Fatalf("TOKEN_TTL is not a valid duration: %v", err)
	}

	return &AppConfig{
		Port:          getEnv("PORT", "5000"),
		MONGOSTRING:   getEnv("MONGOSTRING", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", DBName),
		PASETO_SECRET: secretBase64,
		TokenTTL:      ttl,
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:      getEnv("APP_TIMEZONE", "Local"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisUser:     getEnv("REDIS_USER", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

// Location resolves the zone used for attendance day boundaries.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown APP_TIMEZONE %q, falling back to Local: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

// DecodeSecret accepts URL-safe or standard base64, padded or not.
func DecodeSecret(secret string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(secret)
	if err == nil {
		return decoded, nil
	}
	decoded, err = base64.RawURLEncoding.DecodeString(secret)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(secret)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
