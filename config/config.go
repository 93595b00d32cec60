package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment    string
	Port           string
	RequestTimeout time.Duration

	MongoURI                    string
	MongoDatabase               string
	MongoMaxPoolSize            uint64
	MongoServerSelectionTimeout time.Duration

	JWTSecret string

	UploadcarePublicKey string
	UploadcareSubdomain string

	EmailProvider    string
	EmailFromAddress string
	EmailFromName    string
	AWSRegion        string
	AWSAccessKeyID   string
	AWSSecretKey     string
	// SESInsecureSkipVerify disables TLS verification for the SES endpoint (local emulators only).
	SESInsecureSkipVerify bool

	RabbitMQURL string

	AllowedOrigins []string
}

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production.
// MONGODB_URI is not checked here; a missing value surfaces on first database use.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production we rely on system environment variables only.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:           env,
		Port:                  getEnv("PORT", "8080"),
		MongoURI:              os.Getenv("MONGODB_URI"),
		MongoDatabase:         getEnv("MONGODB_DATABASE", "devevents"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		UploadcarePublicKey:   os.Getenv("UPLOADCARE_PUBLIC_KEY"),
		UploadcareSubdomain:   os.Getenv("UPLOADCARE_SUBDOMAIN"),
		EmailProvider:         getEnv("EMAIL_PROVIDER", "noop"),
		EmailFromAddress:      os.Getenv("EMAIL_FROM_ADDRESS"),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "DevEvents"),
		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:        os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:          os.Getenv("AWS_SECRET_ACCESS_KEY"),
		RabbitMQURL:           os.Getenv("RABBITMQ_URL"),
		SESInsecureSkipVerify: os.Getenv("AWS_SES_INSECURE_SKIP_VERIFY") == "true",
		AllowedOrigins:        splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.MongoServerSelectionTimeout, err = getDuration("MONGODB_SERVER_SELECTION_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	cfg.MongoMaxPoolSize = 10
	if s := os.Getenv("MONGODB_MAX_POOL_SIZE"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid MONGODB_MAX_POOL_SIZE %q", s)
		}
		cfg.MongoMaxPoolSize = n
	}

	if cfg.JWTSecret == "" {
		if env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("5s", "1m") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
