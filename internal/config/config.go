package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// WordPress connection
	WPSiteURL      string        `json:"wp_site_url"`
	WPUsername     string        `json:"wp_username"`
	WPAppPassword  string        `json:"wp_app_password"`
	WPListTimeout  time.Duration `json:"wp_list_timeout"`
	WPPostTimeout  time.Duration `json:"wp_post_timeout"`
	WPWriteTimeout time.Duration `json:"wp_write_timeout"`
	WPSyncLimit    int           `json:"wp_sync_limit"`

	// Plugin write path
	PluginAPIKeyEncrypted string        `json:"plugin_api_key_encrypted"`
	PluginKeySecret       string        `json:"plugin_key_secret"`
	PluginKeyCacheTTL     time.Duration `json:"plugin_key_cache_ttl"`

	// Redis (optional; in-memory sync guard is used when empty)
	RedisURL    string `json:"redis_url"`
	RedisPrefix string `json:"redis_prefix"`

	// Storage
	StoragePath string `json:"storage_path"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// WordPress connection
		WPSiteURL:      getEnv("WP_SITE_URL", ""),
		WPUsername:     getEnv("WP_USERNAME", ""),
		WPAppPassword:  getEnv("WP_APP_PASSWORD", ""),
		WPListTimeout:  getEnvAsDuration("WP_LIST_TIMEOUT", 15*time.Second),
		WPPostTimeout:  getEnvAsDuration("WP_POST_TIMEOUT", 30*time.Second),
		WPWriteTimeout: getEnvAsDuration("WP_WRITE_TIMEOUT", 60*time.Second),
		WPSyncLimit:    getEnvAsInt("WP_SYNC_LIMIT", 50),

		// Plugin write path
		PluginAPIKeyEncrypted: getEnv("PLUGIN_API_KEY_ENCRYPTED", ""),
		PluginKeySecret:       getEnv("PLUGIN_KEY_SECRET", ""),
		PluginKeyCacheTTL:     getEnvAsDuration("PLUGIN_KEY_CACHE_TTL", 5*time.Minute),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "newsbridge:"),

		// Storage
		StoragePath: getEnv("STORAGE_PATH", "./data/news.json"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	return cfg
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
