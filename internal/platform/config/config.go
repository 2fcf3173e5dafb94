package config

import (
	"log"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// inflateFactor derives STATEMENT_MAX_INFLATED_BYTES from the upload cap when unset.
const inflateFactor = 8

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	StorageDriver string
	LogLevel      slog.Level

	MigrationsPath      string
	RunMigrations       bool
	ChartOfAccountsPath string

	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string
	UploadRateLimit    string
	PosthogAPIKey      string

	DefaultCurrency string

	Statement StatementConfig
	Posting   PostingConfig
	Reconcile ReconcileConfig
}

// StatementConfig tunes statement ingestion.
type StatementConfig struct {
	DefaultFormat        string
	MaxUploadBytes       int64
	MinTextLength        int
	DescriptionMaxLength int
	MaxInflatedBytes     int64
}

// PostingConfig tunes the posting engine.
type PostingConfig struct {
	MaxAttempts int
}

// ReconcileConfig tunes the reconciliation matcher.
type ReconcileConfig struct {
	DateToleranceDays int
	Workers           int
	BatchSize         int
}

func setDefaults() {
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("CHART_OF_ACCOUNTS_PATH", "configs/chart_of_accounts.yaml")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "finance-ledger-app")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("UPLOAD_RATE_LIMIT", "20-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("DEFAULT_CURRENCY", "IDR")
	viper.SetDefault("STATEMENT_DEFAULT_FORMAT", "auto")
	viper.SetDefault("STATEMENT_MAX_UPLOAD_BYTES", 10<<20)
	viper.SetDefault("STATEMENT_MIN_TEXT_LENGTH", 20)
	viper.SetDefault("STATEMENT_DESCRIPTION_MAX_LENGTH", 255)
	viper.SetDefault("STATEMENT_MAX_INFLATED_BYTES", 0)
	viper.SetDefault("POSTING_MAX_ATTEMPTS", 5)
	viper.SetDefault("RECONCILE_DATE_TOLERANCE_DAYS", 3)
	viper.SetDefault("RECONCILE_WORKERS", 4)
	viper.SetDefault("RECONCILE_BATCH_SIZE", 500)
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	setDefaults()
	// Actual environment variables override .env values and the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       viper.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:       strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		LogLevel:            parseLogLevel(viper.GetString("LOG_LEVEL")),
		MigrationsPath:      viper.GetString("MIGRATIONS_PATH"),
		RunMigrations:       viper.GetBool("RUN_MIGRATIONS"),
		ChartOfAccountsPath: viper.GetString("CHART_OF_ACCOUNTS_PATH"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTIssuer:           viper.GetString("JWT_ISSUER"),
		CORSAllowedOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		UploadRateLimit:     viper.GetString("UPLOAD_RATE_LIMIT"),
		PosthogAPIKey:       viper.GetString("POSTHOG_API_KEY"),
		DefaultCurrency:     strings.ToUpper(viper.GetString("DEFAULT_CURRENCY")),
		Statement: StatementConfig{
			DefaultFormat:        strings.ToLower(viper.GetString("STATEMENT_DEFAULT_FORMAT")),
			MaxUploadBytes:       viper.GetInt64("STATEMENT_MAX_UPLOAD_BYTES"),
			MinTextLength:        viper.GetInt("STATEMENT_MIN_TEXT_LENGTH"),
			DescriptionMaxLength: viper.GetInt("STATEMENT_DESCRIPTION_MAX_LENGTH"),
			MaxInflatedBytes:     viper.GetInt64("STATEMENT_MAX_INFLATED_BYTES"),
		},
		Posting: PostingConfig{
			MaxAttempts: viper.GetInt("POSTING_MAX_ATTEMPTS"),
		},
		Reconcile: ReconcileConfig{
			DateToleranceDays: viper.GetInt("RECONCILE_DATE_TOLERANCE_DAYS"),
			Workers:           viper.GetInt("RECONCILE_WORKERS"),
			BatchSize:         viper.GetInt("RECONCILE_BATCH_SIZE"),
		},
	}

	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		log.Printf("Warning: unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.normalize()

	return cfg, nil
}

// normalize replaces out-of-range numeric settings with their defaults.
func (c *Config) normalize() {
	positive := func(name string, v *int, def int) {
		if *v <= 0 {
			log.Printf("Warning: Invalid value for %s (%d). Defaulting to %d.\n", name, *v, def)
			*v = def
		}
	}
	positive("POSTING_MAX_ATTEMPTS", &c.Posting.MaxAttempts, 5)
	positive("RECONCILE_WORKERS", &c.Reconcile.Workers, 4)
	positive("RECONCILE_BATCH_SIZE", &c.Reconcile.BatchSize, 500)
	positive("STATEMENT_MIN_TEXT_LENGTH", &c.Statement.MinTextLength, 20)
	positive("STATEMENT_DESCRIPTION_MAX_LENGTH", &c.Statement.DescriptionMaxLength, 255)
	if c.Reconcile.DateToleranceDays < 0 {
		log.Printf("Warning: Invalid value for RECONCILE_DATE_TOLERANCE_DAYS (%d). Defaulting to 3.\n", c.Reconcile.DateToleranceDays)
		c.Reconcile.DateToleranceDays = 3
	}
	if c.Statement.MaxUploadBytes <= 0 {
		c.Statement.MaxUploadBytes = 10 << 20
	}
	if c.Statement.MaxInflatedBytes <= 0 {
		c.Statement.MaxInflatedBytes = inflateFactor * c.Statement.MaxUploadBytes
	}
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = "IDR"
	}
	if c.Statement.DefaultFormat == "" {
		c.Statement.DefaultFormat = "auto"
	}
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", s)
		return slog.LevelInfo
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
