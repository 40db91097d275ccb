package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMongo     = "mongo"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Config holds every environment level option of the server
type Config struct {
	Port string

	StoreDriver string

	MongoURI string
	MongoDB  string

	// DatabaseURL wins over the individual POSTGRES_* settings
	DatabaseURL      string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	FirebaseProjectID          string
	FirebaseServiceAccountPath string

	RedisURL string
	CacheTTL time.Duration

	MediaCloudName     string
	MediaUploadPreset  string
	MediaUploadBaseURL string
	MediaTimeout       time.Duration

	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	CookieSecure      bool
	AdminAPIGuard     bool

	MonthlyGoal   int
	DashboardTZ   string
	SummaryCron   string
	CacheWarmCron string

	LogLevel string
	GinMode  string
}

// Load reads .env (when present) and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "9091"),
		StoreDriver: strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverMongo)),

		MongoURI: os.Getenv("MONGODB_URI"),
		MongoDB:  getEnvOrDefault("MONGODB_DB", "cas"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresHost:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnvOrDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getEnvOrDefault("POSTGRES_DB", "cas"),
		PostgresSSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),

		FirebaseProjectID:          os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),

		RedisURL: os.Getenv("REDIS_URL"),

		MediaCloudName:     os.Getenv("CLOUDINARY_CLOUD_NAME"),
		MediaUploadPreset:  os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		MediaUploadBaseURL: strings.TrimRight(getEnvOrDefault("MEDIA_UPLOAD_BASE_URL", "https://api.cloudinary.com/v1_1"), "/"),

		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),

		DashboardTZ:   getEnvOrDefault("DASHBOARD_TZ", "Local"),
		SummaryCron:   getEnvOrDefault("SUMMARY_CRON", "5 0 * * *"),
		CacheWarmCron: getEnvOrDefault("CACHE_WARM_CRON", "@every 10m"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		GinMode:  os.Getenv("GIN_MODE"),
	}

	var err error
	if cfg.CacheTTL, err = getDurationOrDefault("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MediaTimeout, err = getDurationOrDefault("MEDIA_UPLOAD_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getBoolOrDefault("COOKIE_SECURE", true); err != nil {
		return nil, err
	}
	if cfg.AdminAPIGuard, err = getBoolOrDefault("ADMIN_API_GUARD", true); err != nil {
		return nil, err
	}
	if cfg.MonthlyGoal, err = getIntOrDefault("MONTHLY_GOAL", 4); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the selected store driver and auth need
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firestore store"))
		}
	case DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"))
	}
	if c.MonthlyGoal < 0 {
		errs = append(errs, errors.New("MONTHLY_GOAL must not be negative"))
	}
	if _, err := time.LoadLocation(c.DashboardTZ); err != nil {
		errs = append(errs, fmt.Errorf("invalid DASHBOARD_TZ: %w", err))
	}

	return errors.Join(errs...)
}

// MediaConfigured reports whether uploads to the media host can be made
func (c *Config) MediaConfigured() bool {
	return c.MediaCloudName != "" && c.MediaUploadPreset != ""
}

// PostgresURL returns DATABASE_URL or one assembled from the POSTGRES_* settings
func (c *Config) PostgresURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSLMode)
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func getBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return b, nil
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return i, nil
}
