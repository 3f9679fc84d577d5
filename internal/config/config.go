package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    int
	DataDir       string
	BaseURL       string
	SessionSecret []byte
	LogLevel      string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		ServerPort:    EnvIntDefault("SERVER_PORT", 8080),
		DataDir:       EnvDefault("DATA_DIR", "data"),
		BaseURL:       EnvDefault("BASE_URL", "http://localhost:8080"),
		SessionSecret: []byte(EnvDefault("SESSION_SECRET", "local-session-secret")),
		LogLevel:      EnvDefault("LOG_LEVEL", "info"),
	}
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
