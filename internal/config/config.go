package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	DBMaxIdleConns    int
	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration
	DBLogLevel        string
	RedisURL          string
	JWTSecret         string
	JWTExpiration     time.Duration
	WhatsAppAPIURL    string
	WhatsAppUsername  string
	WhatsAppPassword  string
	WhatsAppPath      string
	ServerPort        string
	AppEnv            string
	LogLevel          string
	CacheTTL          time.Duration
	FallbackEnabled   bool
	FallbackIDSeed    uint
	StrictTransitions bool
	Admin             AdminConfig
}

// AdminConfig seeds the first staff account and its store.
type AdminConfig struct {
	Email     string
	Password  string
	Name      string
	StoreSlug string
	StoreName string
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		RedisURL:          getEnv("REDIS_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", "change_me"),
		JWTExpiration:     time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		WhatsAppAPIURL:    getEnv("WHATSAPP_API_URL", ""),
		WhatsAppUsername:  getEnv("WHATSAPP_USERNAME", ""),
		WhatsAppPassword:  getEnv("WHATSAPP_PASSWORD", ""),
		WhatsAppPath:      getEnv("WHATSAPP_PATH", ""),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CacheTTL:          time.Duration(getEnvAsInt("CACHE_TTL", 300)) * time.Second,
		FallbackEnabled:   getEnvAsBool("FALLBACK_ENABLED", true),
		FallbackIDSeed:    uint(getEnvAsInt("FALLBACK_ID_SEED", 1000000)),
		StrictTransitions: getEnvAsBool("STRICT_TRANSITIONS", true),
		Admin: AdminConfig{
			Email:     getEnv("ADMIN_EMAIL", "admin@restaurant.local"),
			Password:  getEnv("ADMIN_PASSWORD", "admin123"),
			Name:      getEnv("ADMIN_NAME", "Administrator"),
			StoreSlug: getEnv("ADMIN_STORE_SLUG", "demo"),
			StoreName: getEnv("ADMIN_STORE_NAME", "Demo Restaurant"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s") or bare seconds ("90").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
