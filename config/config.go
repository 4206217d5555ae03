package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Checkout aggregation modes. Legacy reproduces the historic behavior of
// recording the whole checkout under the last product name in the cart;
// itemized writes one record per distinct product.
const (
	CheckoutModeLegacy   = "legacy"
	CheckoutModeItemized = "itemized"
)

// Config holds all runtime settings, read once at startup.
type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      []byte
	BcryptCost     int
	SendGridAPIKey string
	EmailSender    string
	CheckoutMode   string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// Missing .env just means the process environment is used directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "storefront"),
		JWTSecret:      []byte(os.Getenv("JWT_SECRET")),
		BcryptCost:     getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailSender:    getEnv("EMAIL_SENDER", "noreply@storefront.local"),
		CheckoutMode:   getEnv("CHECKOUT_MODE", CheckoutModeLegacy),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.CheckoutMode != CheckoutModeLegacy && cfg.CheckoutMode != CheckoutModeItemized {
		return nil, fmt.Errorf("invalid CHECKOUT_MODE %q", cfg.CheckoutMode)
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid BCRYPT_COST %d", cfg.BcryptCost)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
