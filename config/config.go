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

// Delete policies accepted by USER_DELETE_POLICY
const (
	DeletePolicyAdmin             = "admin"
	DeletePolicyAdminOrInstructor = "admin-or-instructor"
)

// Config holds application configuration
type Config struct {
	Port string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBPath     string // sqlite file path

	JWTKey   string
	TokenTTL time.Duration

	StripeSecretKey string
	StripeAPIURL    string
	Currency        string
	GatewayTimeout  time.Duration

	SeatUpdateAttempts int
	RedisURL           string
	PaymentLockTTL     time.Duration
	ReconcileSchedule  string

	UserDeletePolicy string
	CORSOrigins      string
}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port: getEnv("PORT", "3000"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "summer_camp"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBPath:     getEnv("DB_PATH", "summer-camp.db"),

		JWTKey:   getEnv("JWT_SECRET_KEY", "defaultSecret"),
		TokenTTL: getEnvDuration("TOKEN_TTL", time.Hour),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIURL:    getEnv("STRIPE_API_URL", "https://api.stripe.com"),
		Currency:        strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		GatewayTimeout:  getEnvDuration("GATEWAY_TIMEOUT", 10*time.Second),

		SeatUpdateAttempts: getEnvInt("SEAT_UPDATE_ATTEMPTS", 3),
		RedisURL:           getEnv("REDIS_URL", ""),
		PaymentLockTTL:     getEnvDuration("PAYMENT_LOCK_TTL", 30*time.Second),
		ReconcileSchedule:  getEnv("RECONCILE_SCHEDULE", "@every 5m"),

		UserDeletePolicy: strings.ToLower(getEnv("USER_DELETE_POLICY", DeletePolicyAdmin)),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
	}

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY is empty. Payment intents will fail.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.UserDeletePolicy {
	case DeletePolicyAdmin, DeletePolicyAdminOrInstructor:
	default:
		return fmt.Errorf("config: unsupported USER_DELETE_POLICY %q", c.UserDeletePolicy)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if c.SeatUpdateAttempts < 1 {
		return fmt.Errorf("config: SEAT_UPDATE_ATTEMPTS must be at least 1")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration accepts Go durations ("90s", "1h") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	log.Printf("Error converting environment variable %s to duration: %q", key, value)
	return defaultValue
}
