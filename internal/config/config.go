package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port     string
	AppEnv   string
	LogLevel string

	// Store configuration
	StoreType    string // mongodb, mysql, postgres, sqlite, sqlite-pure, sqlserver
	StoreTimeout time.Duration

	// MongoDB configuration
	MongoURI                string
	MongoDatabase           string
	MongoProductsCollection string
	MongoUsersCollection    string

	// SQL database configuration
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Cache configuration
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	// Identity configuration
	AuthzURL      string
	AuthzClientID string
	JWTSecret     string
}

// Load loads configuration from environment variables, after merging in the
// dotenv file named by ENV_FILE (default .env) when it exists. Variables
// already set in the environment take precedence over the file.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "5001"),
		AppEnv:                  getEnv("APP_ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		StoreType:               getEnv("STORE_TYPE", "mongodb"),
		StoreTimeout:            getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),
		MongoURI:                getEnv("MONGODB_URI", ""),
		MongoDatabase:           getEnv("MONGODB_DATABASE", "CampusMarket"),
		MongoProductsCollection: getEnv("MONGODB_COLLECTION_PRODUCTS", "products"),
		MongoUsersCollection:    getEnv("MONGODB_COLLECTION_USERS", "users"),
		DBHost:                  getEnv("DB_HOST", "localhost"),
		DBPort:                  getEnv("DB_PORT", "3306"),
		DBDatabase:              getEnv("DB_DATABASE", ""),
		DBUser:                  getEnv("DB_USER", ""),
		DBPassword:              getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:       getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		CacheTTL:                getEnvAsDuration("CACHE_TTL", 30*time.Second),
		AuthzURL:                getEnv("AUTHZ_URL", ""),
		AuthzClientID:           getEnv("AUTHZ_CLIENT_ID", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistent settings
func (cfg *Config) Validate() error {
	switch cfg.StoreType {
	case "mongodb":
		if cfg.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORE_TYPE is mongodb")
		}
	case "mysql", "mariadb", "postgres", "postgresql", "sqlserver", "mssql":
		if cfg.DBDatabase == "" {
			return fmt.Errorf("DB_DATABASE is required when STORE_TYPE is %s", cfg.StoreType)
		}
		if cfg.DBUser == "" {
			return fmt.Errorf("DB_USER is required when STORE_TYPE is %s", cfg.StoreType)
		}
	case "sqlite", "sqlite-pure":
		if cfg.DBDatabase == "" {
			return fmt.Errorf("DB_DATABASE is required when STORE_TYPE is %s", cfg.StoreType)
		}
	case "static":
	default:
		return fmt.Errorf("unsupported STORE_TYPE: %s", cfg.StoreType)
	}

	if (cfg.AuthzURL == "") != (cfg.AuthzClientID == "") {
		return fmt.Errorf("AUTHZ_URL and AUTHZ_CLIENT_ID must be set together")
	}
	if cfg.DBConnectionLimit < 1 {
		return fmt.Errorf("DB_CONNECTION_LIMIT must be positive")
	}
	return nil
}

// IsSQL reports whether the configured store is a GORM database
func (cfg *Config) IsSQL() bool {
	return cfg.StoreType != "mongodb" && cfg.StoreType != "static"
}

// IsProduction reports whether the app runs in production mode
func (cfg *Config) IsProduction() bool {
	return cfg.AppEnv == "production"
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration ("5s", "250ms")
// or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
