package config

import (
	"os"
	"strings"
)

// LedgerConfig selects between real ledger persistence and fabricated demo
// data. Resolved once at startup from LEDGER_DATABASE_URL so request handling
// never consults the process environment.
type LedgerConfig struct {
	Enabled     bool
	DatabaseURL string
}

// Config holds all runtime settings for the API server
type Config struct {
	Port           string
	DatabaseDSN    string
	AllowedOrigins []string
	Ledger         LedgerConfig
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment with development defaults
func Load() Config {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "postgres")
	dbSslMode := getEnv("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	origins := []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	ledgerURL := os.Getenv("LEDGER_DATABASE_URL")

	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseDSN:    dsn,
		AllowedOrigins: origins,
		Ledger: LedgerConfig{
			Enabled:     ledgerURL != "",
			DatabaseURL: ledgerURL,
		},
	}
}
