package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP_ADDR    string
	LOG_LEVEL    string
	DATABASE_URL string

	JWT_SECRET  string
	JWT_TTL     time.Duration
	COOKIE_NAME string

	HASH_SALT_LENGTH uint32
	HASH_KEY_LENGTH  uint32
	HASH_MEMORY_KIB  uint32
	HASH_TIME_COST   uint32
	HASH_PARALLELISM uint8

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string
	ES_INDEX    string

	KAFKA_ADDRESS string

	S3_ENDPOINT   string
	S3_REGION     string
	S3_BUCKET     string
	S3_ACCESS_KEY string
	S3_SECRET_KEY string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:    getEnv("HTTP_ADDR", ":8080"),
		LOG_LEVEL:    getEnv("LOG_LEVEL", "info"),
		DATABASE_URL: os.Getenv("DATABASE_URL"),

		JWT_SECRET:  os.Getenv("JWT_SECRET"),
		JWT_TTL:     time.Duration(getEnvInt("JWT_TTL_MINUTES", 60)) * time.Minute,
		COOKIE_NAME: getEnv("JWT_COOKIE_NAME", "jwt"),

		HASH_SALT_LENGTH: uint32(getEnvInt("HASH_SALT_LENGTH", 16)),
		HASH_KEY_LENGTH:  uint32(getEnvInt("HASH_KEY_LENGTH", 32)),
		HASH_MEMORY_KIB:  uint32(getEnvInt("HASH_MEMORY_KIB", 64*1024)),
		HASH_TIME_COST:   uint32(getEnvInt("HASH_TIME_COST", 1)),
		HASH_PARALLELISM: uint8(getEnvInt("HASH_PARALLELISM", 4)),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),
		ES_INDEX:    getEnv("ES_INDEX", "artisans"),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),

		S3_ENDPOINT:   os.Getenv("S3_ENDPOINT"),
		S3_REGION:     getEnv("S3_REGION", "us-east-1"),
		S3_BUCKET:     os.Getenv("S3_BUCKET"),
		S3_ACCESS_KEY: os.Getenv("S3_ACCESS_KEY"),
		S3_SECRET_KEY: os.Getenv("S3_SECRET_KEY"),
	}

	return config, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Notice: invalid %s=%q, using default %d", name, v, fallback)
		return fallback
	}
	return n
}
