package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string // Required: issuer claim for tokens
	JWTSecret      string // Required: shared secret for HS256 tokens
	BootstrapToken string // Optional: token required to perform bootstrap

	MongoURI      string // MongoDB connection string (default: mongodb://localhost:27017)
	MongoDatabase string // MongoDB database name (default: opsdesk)

	BlobEndpoint    string        // S3-compatible blob store endpoint host
	BlobRegion      string        // Blob store region (default: us-east-1)
	BlobKeyID       string        // Blob store access key id
	BlobSecret      string        // Blob store secret access key
	BlobBucket      string        // Blob store bucket (default: opsdesk)
	BlobCallTimeout time.Duration // Per-call blob store timeout (default: 10s)

	TokenTTL            time.Duration // Access token lifetime (default: 24h)
	PepperFile          string        // Path to pepper file for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// Optional .env file for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Issuer:         getEnvOrDefault("OPSDESK_ISSUER", "opsdesk"),
		JWTSecret:      os.Getenv("OPSDESK_JWT_SECRET"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"), // Optional: if set, required to perform bootstrap

		MongoURI:      getEnvOrDefault("OPSDESK_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("OPSDESK_MONGO_DATABASE", "opsdesk"),

		BlobEndpoint:    os.Getenv("OPSDESK_BLOB_ENDPOINT"),
		BlobRegion:      getEnvOrDefault("OPSDESK_BLOB_REGION", "us-east-1"),
		BlobKeyID:       os.Getenv("OPSDESK_BLOB_KEY_ID"),
		BlobSecret:      os.Getenv("OPSDESK_BLOB_SECRET"),
		BlobBucket:      getEnvOrDefault("OPSDESK_BLOB_BUCKET", "opsdesk"),
		BlobCallTimeout: getEnvDurationOrDefault("OPSDESK_BLOB_CALL_TIMEOUT", 10*time.Second),

		TokenTTL:            getEnvDurationOrDefault("OPSDESK_TOKEN_TTL", 24*time.Hour),
		PepperFile:          getEnvOrDefault("OPSDESK_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
