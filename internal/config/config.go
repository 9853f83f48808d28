package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	ServerPort int
	LogLevel   string

	DatabaseURL string

	JWTSecret []byte

	// PostCreatePolicy is "admin" or "authenticated"; who may create posts.
	PostCreatePolicy string

	KafkaAddress string
	KafkaTopic   string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string
}

// devSecret keeps local runs working without a .env. Production must set
// JWT_SECRET explicitly.
const devSecret = "dev-secret-change-me"

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		AppEnv:     EnvDefault("APP_ENV", "development"),
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: EnvDefault("DATABASE_URL", "blog.db"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		PostCreatePolicy: EnvDefault("POST_CREATE_POLICY", "admin"),

		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "blog_events"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),
	}

	if len(cfg.JWTSecret) == 0 {
		if cfg.AppEnv == "production" {
			log.Fatalf("missing required env JWT_SECRET")
		}
		log.Printf("Notice: JWT_SECRET not set, using insecure development default")
		cfg.JWTSecret = []byte(devSecret)
	}

	return cfg, nil
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
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
