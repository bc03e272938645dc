package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Built-in signing secrets for non-production environments. Production
// deployments must provide JWT_SECRET explicitly.
const (
	devSecret  = "gotodo-dev-secret"
	testSecret = "gotodo-test-secret"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	AppEnv       string
	JWTSecret    string
	BcryptCost   int
}

// Load loads configuration from environment variables or sets defaults.
// The signing secret is resolved once here and handed to the token service
// constructor; core logic never reads it from ambient state.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	env := getEnv("APP_ENV", EnvDevelopment)
	switch env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return nil, fmt.Errorf("unknown APP_ENV %q", env)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		switch env {
		case EnvDevelopment:
			secret = devSecret
		case EnvTest:
			secret = testSecret
		case EnvProduction:
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", EnvProduction)
		}
	}

	costStr := getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost))
	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST %q: %w", costStr, err)
	}

	return &Config{
		ServerPort:   port,
		DatabasePath: getEnv("DATABASE_PATH", "./gotodo.db"),
		AppEnv:       env,
		JWTSecret:    secret,
		BcryptCost:   cost,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
