package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Storage drivers.
const (
	StorageDriverMinIO = "minio"
	StorageDriverLocal = "local"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Validate validates the MinIO configuration.
func (c MinIOConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.AccessKey, validation.Required),
		validation.Field(&c.SecretKey, validation.Required),
		validation.Field(&c.Bucket, validation.Required, validation.Length(3, 63)),
	)
}

// StorageConfig selects the backend that keeps uploaded images and attachments.
type StorageConfig struct {
	Driver    string
	LocalRoot string
}

// Validate validates the storage configuration.
func (c StorageConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(StorageDriverMinIO, StorageDriverLocal)),
		validation.Field(&c.LocalRoot, validation.When(c.Driver == StorageDriverLocal, validation.Required)),
	)
}

// AuthConfig holds the signing material for session tokens.
// UserSecret and AdminSecret must differ so a token of one principal type
// never verifies as the other.
type AuthConfig struct {
	UserSecret  string
	AdminSecret string
	// TokenTTL of zero issues tokens without an expiry claim.
	TokenTTL   time.Duration
	BcryptCost int
}

// Validate validates the auth configuration.
func (c AuthConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.UserSecret, validation.Required),
		validation.Field(&c.AdminSecret, validation.Required),
		validation.Field(&c.TokenTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.BcryptCost, validation.Min(10), validation.Max(31)),
	)
	if err != nil {
		return err
	}
	if c.UserSecret == c.AdminSecret {
		return errors.New("user and admin token secrets must differ")
	}
	return nil
}

// MailConfig holds SMTP settings for outbound mail. An empty Host selects
// the log-only mailer.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// OTPConfig controls the password-reset one-time codes.
type OTPConfig struct {
	Length int
	TTL    time.Duration
}

// Validate validates the OTP configuration.
func (c OTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Length, validation.Required, validation.Min(4), validation.Max(10)),
		validation.Field(&c.TTL, validation.Required),
	)
}

// UploadConfig bounds multipart uploads.
type UploadConfig struct {
	MaxFiles     int
	MaxBodyBytes int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	AppScheme   string
	Port        string
	LogTimezone string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Storage     StorageConfig
	Auth        AuthConfig
	Mail        MailConfig
	OTP         OTPConfig
	Upload      UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		AppScheme:   getEnv("APP_SCHEME", "http"),
		Port:        getEnv("PORT", "8080"),
		LogTimezone: getEnv("LOG_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", StorageDriverMinIO),
			LocalRoot: getEnv("STORAGE_LOCAL_ROOT", "./public"),
		},
		Auth: AuthConfig{
			UserSecret:  getEnv("JWT_USER_SECRET", ""),
			AdminSecret: getEnv("JWT_ADMIN_SECRET", ""),
			TokenTTL:    getEnvDuration("TOKEN_TTL", 0),
			BcryptCost:  getEnvInt("BCRYPT_COST", 10),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", ""),
			FromName: getEnv("MAIL_FROM_NAME", "StickyNote"),
		},
		OTP: OTPConfig{
			Length: getEnvInt("OTP_LENGTH", 4),
			TTL:    getEnvDuration("OTP_TTL", 10*time.Minute),
		},
		Upload: UploadConfig{
			MaxFiles:     getEnvInt("UPLOAD_MAX_FILES", 10),
			MaxBodyBytes: getEnvInt("UPLOAD_MAX_BODY_BYTES", 50<<20),
		},
	}
}

// Validate checks the settings that have no safe default.
func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Storage),
		validation.Field(&c.Auth),
		validation.Field(&c.OTP),
	)
}

// Location resolves LogTimezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.LogTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
