package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDataTables is the row-copy order: every table appears after the
// tables its foreign keys reference.
var DefaultDataTables = []string{
	"categorias_gastos",
	"ventas",
	"abonos",
	"viajes_nacionales",
	"clientes_nacionales",
	"viajes_internacionales",
	"clientes_internacionales",
	"gastos_operativos",
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=agencia port=5432 sslmode=disable"

type Config struct {
	// Report data backend: sqlite or memory
	DataBackend string

	// Source store
	SQLiteDBPath string

	// Destination store
	DatabaseDSN string
	DBTimeout   time.Duration

	// Reporting
	ExchangeRate    decimal.Decimal
	ReportOutputDir string
	// ReportCacheTTL of zero reads the store on every query.
	ReportCacheTTL  time.Duration
	ReportCacheSize int

	// Migration
	DataTables       []string
	SequenceTables   []string
	MigrationWorkers int
	InsertBatchSize  int

	LogLevel string
}

func Load() *Config {
	dataTables := getEnvList("MIGRATION_TABLES", DefaultDataTables)
	cfg := &Config{
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/agencia.db"),

		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		DBTimeout:   getEnvDuration("DB_TIMEOUT", 10*time.Second),

		ExchangeRate:    getEnvDecimal("EXCHANGE_RATE", decimal.NewFromFloat(17.0)),
		ReportOutputDir: getEnv("REPORT_OUTPUT_DIR", "./reportes"),
		ReportCacheTTL:  getEnvDuration("REPORT_CACHE_TTL", 30*time.Second),
		ReportCacheSize: getEnvInt("REPORT_CACHE_SIZE", 64),

		DataTables:       dataTables,
		SequenceTables:   getEnvList("SEQUENCE_TABLES", dataTables),
		MigrationWorkers: getEnvInt("MIGRATION_WORKERS", 1),
		InsertBatchSize:  getEnvInt("INSERT_BATCH_SIZE", 100),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// UsesDefaultDSN reports whether the destination DSN is the local development default.
func (c *Config) UsesDefaultDSN() bool {
	return c.DatabaseDSN == defaultDSN
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if !c.ExchangeRate.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid exchange rate %s: must be greater than zero", c.ExchangeRate.String()))
	}

	if strings.TrimSpace(c.ReportOutputDir) == "" {
		errors = append(errors, "report output directory cannot be empty")
	}

	if c.ReportCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: cannot be negative", c.ReportCacheTTL))
	}
	if c.ReportCacheTTL > 0 && c.ReportCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must be at least 1", c.ReportCacheSize))
	}

	if len(c.DataTables) == 0 {
		errors = append(errors, "migration table list cannot be empty")
	}
	if dup := firstDuplicate(c.DataTables); dup != "" {
		errors = append(errors, fmt.Sprintf("migration table list contains '%s' more than once", dup))
	}

	if c.MigrationWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid migration workers %d: must be at least 1", c.MigrationWorkers))
	} else if c.MigrationWorkers > 32 {
		errors = append(errors, fmt.Sprintf("invalid migration workers %d: must be at most 32", c.MigrationWorkers))
	}

	if c.InsertBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid insert batch size %d: must be at least 1", c.InsertBatchSize))
	} else if c.InsertBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid insert batch size %d: must be at most 1000", c.InsertBatchSize))
	}

	if c.DBTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid database timeout %v: must be at least 1 second", c.DBTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func firstDuplicate(items []string) string {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it] {
			return it
		}
		seen[it] = true
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ".")); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList reads a comma separated list, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
