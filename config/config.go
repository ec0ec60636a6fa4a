package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	MysqlDSN   string
	JWTSecret  string
}

var Cfg *Config

func Load() {
	// Missing .env is fine; plain environment variables still apply.
	godotenv.Load()

	Cfg = &Config{
		ServerAddr: ":" + getEnv("PORT", "8080"),
		MysqlDSN:   getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/huddle?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:  getEnv("JWT_SECRET", "huddle-secret-key-change-in-production"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
