package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort = "8080"
	defaultCartTTL = 7 * 24 * time.Hour

	defaultCORSOrigin = "http://localhost:3000"
)

type Config struct {
	DBHost            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPort            string
	AppPort           string
	AppEnv            string
	JWTSecret         string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CartTTL           time.Duration
	InternalSecretKey string
	CORSOrigin        string
	LogLevel          string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            os.Getenv("DB_PORT"),
		AppPort:           os.Getenv("APP_PORT"),
		AppEnv:            os.Getenv("APP_ENV"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		CORSOrigin:        os.Getenv("CORS_ALLOWED_ORIGIN"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		CartTTL:           defaultCartTTL,
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.AppPort == "" {
		cfg.AppPort = defaultAppPort
	}

	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = defaultCORSOrigin
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid REDIS_DB %q: %v", v, err)
		}
		cfg.RedisDB = n
	}

	if v := os.Getenv("CART_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid CART_TTL %q: %v", v, err)
		}
		cfg.CartTTL = d
	}

	return cfg
}
