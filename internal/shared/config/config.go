package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	TLS           TLSConfig
	Session       SessionConfig
	Encryption    EncryptionConfig
	Plaid         PlaidConfig
	Dwolla        DwollaConfig
	DocumentStore DocumentStoreConfig
	Sync          SyncConfig
	Telemetry     TelemetryConfig
	Log           LogConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Env            string
	AllowedOrigins []string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

type EncryptionConfig struct {
	Key string
}

type PlaidConfig struct {
	ClientID     string
	Secret       string
	Environment  string
	ClientName   string
	Products     []string
	CountryCodes []string
}

type DwollaConfig struct {
	Key         string
	Secret      string
	Environment string
}

type DocumentStoreConfig struct {
	Backend               string // firestore, postgres or memory
	UserCollection        string
	BankCollection        string
	TransactionCollection string
	Firestore             FirestoreConfig
	Database              DatabaseConfig
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SyncConfig struct {
	MaxPages int
	PageSize int
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

type LogConfig struct {
	Development bool
	Level       string
}

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// Load reads configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	maxPages, err := strconv.Atoi(getEnv("SYNC_MAX_PAGES", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_MAX_PAGES: %w", err)
	}
	pageSize, err := strconv.Atoi(getEnv("SYNC_PAGE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_PAGE_SIZE: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("HOST", "0.0.0.0"),
			Env:            env,
			AllowedOrigins: getListEnv("ALLOWED_ORIGINS", ""),
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			TTL:        sessionTTL,
			CookieName: getEnv("SESSION_COOKIE_NAME", "horizon-session"),
			Secure:     getBoolEnv("SESSION_COOKIE_SECURE", env == "production"),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Plaid: PlaidConfig{
			ClientID:     getEnv("PLAID_CLIENT_ID", ""),
			Secret:       getEnv("PLAID_SECRET", ""),
			Environment:  getEnv("PLAID_ENV", "sandbox"),
			ClientName:   getEnv("PLAID_CLIENT_NAME", "Horizon"),
			Products:     getListEnv("PLAID_PRODUCTS", "auth,transactions"),
			CountryCodes: getListEnv("PLAID_COUNTRY_CODES", "US"),
		},
		Dwolla: DwollaConfig{
			Key:         getEnv("DWOLLA_KEY", ""),
			Secret:      getEnv("DWOLLA_SECRET", ""),
			Environment: getEnv("DWOLLA_ENV", "sandbox"),
		},
		DocumentStore: DocumentStoreConfig{
			Backend:               strings.ToLower(getEnv("DOCUMENT_STORE", BackendFirestore)),
			UserCollection:        getEnv("USER_COLLECTION", "users"),
			BankCollection:        getEnv("BANK_COLLECTION", "banks"),
			TransactionCollection: getEnv("TRANSACTION_COLLECTION", "transactions"),
			Firestore: FirestoreConfig{
				ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
				CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			},
			Database: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     dbPort,
				User:     getEnv("DB_USER", "horizon"),
				Password: getEnv("DB_PASSWORD", ""),
				DBName:   getEnv("DB_NAME", "horizon"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
		},
		Sync: SyncConfig{
			MaxPages: maxPages,
			PageSize: pageSize,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "horizon-api"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
		Log: LogConfig{
			Development: getBoolEnv("LOG_DEVELOPMENT", env != "production"),
			Level:       getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}
	if cfg.TLS.Enabled && (cfg.TLS.CertPath == "" || cfg.TLS.KeyPath == "") {
		return nil, fmt.Errorf("TLS_CERT_PATH and TLS_KEY_PATH are required when TLS_ENABLED=true")
	}
	if cfg.Sync.MaxPages <= 0 {
		return nil, fmt.Errorf("SYNC_MAX_PAGES must be positive")
	}
	if cfg.Sync.PageSize <= 0 || cfg.Sync.PageSize > 500 {
		return nil, fmt.Errorf("SYNC_PAGE_SIZE must be between 1 and 500")
	}

	switch cfg.DocumentStore.Backend {
	case BackendFirestore:
		if cfg.DocumentStore.Firestore.ProjectID == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required when DOCUMENT_STORE=firestore")
		}
	case BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown DOCUMENT_STORE %q", cfg.DocumentStore.Backend)
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

// getListEnv splits a comma-separated value, dropping blanks.
func getListEnv(key, defaultValue string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
