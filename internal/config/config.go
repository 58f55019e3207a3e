package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes application configuration to the rest of the codebase.
// Handlers and stores depend on this interface rather than the concrete
// Config struct so tests can substitute their own values.
type Provider interface {
	GetServerAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string

	GetDBUrl() string
	GetDBUser() string
	GetDBPass() string
	GetDBNs() string
	GetDBDb() string
	GetDBQueryTimeout() time.Duration

	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string

	GetUploadDir() string
	GetMaxUploadSize() int64
}

// Config holds all configuration for the application, loaded from
// environment variables.
type Config struct {
	ServerAddr    string
	AppBaseURL    string
	SessionSecret string

	DBUrl          string
	DBUser         string
	DBPass         string
	DBNs           string
	DBDb           string
	DBQueryTimeout time.Duration

	EmailProvider string
	EmailAPIKey   string
	EmailSender   string

	UploadDir     string
	MaxUploadSize int64
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		AppBaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		DBUrl:          os.Getenv("SURREAL_URL"),
		DBUser:         os.Getenv("SURREAL_USER"),
		DBPass:         os.Getenv("SURREAL_PASS"),
		DBNs:           os.Getenv("SURREAL_NS"),
		DBDb:           os.Getenv("SURREAL_DB"),
		DBQueryTimeout: getEnvDuration("DB_QUERY_TIMEOUT", 10*time.Second),
		EmailProvider:  getEnv("EMAIL_PROVIDER", "log"),
		EmailAPIKey:    os.Getenv("EMAIL_API_KEY"),
		EmailSender:    os.Getenv("EMAIL_SENDER"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSize:  getEnvInt64("MAX_UPLOAD_SIZE", 10<<20), // 10MB
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		log.Fatal("Required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set.")
	}
	if cfg.SessionSecret == "" {
		log.Fatal("Required environment variable SESSION_SECRET is not set.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("Invalid value for %s, using default: %v", key, err)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid value for %s, using default: %v", key, err)
		return fallback
	}
	return d
}

func (c *Config) GetServerAddr() string            { return c.ServerAddr }
func (c *Config) GetAppBaseURL() string            { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string         { return c.SessionSecret }
func (c *Config) GetDBUrl() string                 { return c.DBUrl }
func (c *Config) GetDBUser() string                { return c.DBUser }
func (c *Config) GetDBPass() string                { return c.DBPass }
func (c *Config) GetDBNs() string                  { return c.DBNs }
func (c *Config) GetDBDb() string                  { return c.DBDb }
func (c *Config) GetDBQueryTimeout() time.Duration { return c.DBQueryTimeout }
func (c *Config) GetEmailProvider() string         { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string           { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string           { return c.EmailSender }
func (c *Config) GetUploadDir() string             { return c.UploadDir }
func (c *Config) GetMaxUploadSize() int64          { return c.MaxUploadSize }
