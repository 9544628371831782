package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderFirebase = "firebase"
	ProviderHMAC     = "hmac"

	// DefaultFirebaseJWKSURL publishes the keys that sign Firebase ID tokens.
	DefaultFirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	Auth        AuthConfig
	Minio       MinioConfig
	Logging     LoggingConfig
	Environment string
}

type ServerConfig struct {
	Port        int    `validate:"min=0,max=65535"`
	CORSOrigins string `validate:"required"`
}

type MongoConfig struct {
	URI            string        `validate:"required"`
	Database       string        `validate:"required"`
	ConnectTimeout time.Duration `validate:"gt=0"`
}

type AuthConfig struct {
	Provider          string        `validate:"oneof=firebase hmac"`
	FirebaseProjectID string        `validate:"required_if=Provider firebase"`
	FirebaseJWKSURL   string        `validate:"required_if=Provider firebase"`
	JWKSRefresh       time.Duration `validate:"gt=0"`
	JWTSecret         string        `validate:"required_if=Provider hmac"`
}

// MinioConfig is optional: an empty Endpoint disables request attachments.
type MinioConfig struct {
	Endpoint  string
	AccessKey string `validate:"required_with=Endpoint"`
	SecretKey string `validate:"required_with=Endpoint"`
	Bucket    string `validate:"required_with=Endpoint"`
	UseSSL    bool
	URLExpiry time.Duration `validate:"gt=0"`
}

// Enabled reports whether object storage was configured.
func (m MinioConfig) Enabled() bool {
	return m.Endpoint != ""
}

type LoggingConfig struct {
	Level  string
	Format string `validate:"oneof=json console"`
}

var validate = validator.New()

// Load reads the process configuration. A .env file in the working directory
// is applied first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:        getEnvInt("PORT", 3000),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", ""),
			Database:       getEnv("MONGO_DB", "lifeadviceDB"),
			ConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			Provider:          strings.ToLower(getEnv("AUTH_PROVIDER", ProviderFirebase)),
			FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
			FirebaseJWKSURL:   getEnv("FIREBASE_JWKS_URL", DefaultFirebaseJWKSURL),
			JWKSRefresh:       getEnvDuration("FIREBASE_JWKS_REFRESH", time.Hour),
			JWTSecret:         getEnv("JWT_SECRET", ""),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "request-attachments"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			URLExpiry: getEnvDuration("MINIO_URL_EXPIRY", 15*time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports every violation at once.
func (c Config) Validate() error {
	var errs []error
	for _, section := range []any{c.Server, c.Mongo, c.Auth, c.Minio, c.Logging} {
		if err := validate.Struct(section); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("config %s: failed %q", fe.Namespace(), fe.Tag()))
			}
		}
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
