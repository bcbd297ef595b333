package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validConfig() Config {
	return Config{
		DataBackend:      "sqlite",
		SQLiteDBPath:     "./test.db",
		DatabaseDSN:      defaultDSN,
		DBTimeout:        10 * time.Second,
		ExchangeRate:     decimal.NewFromFloat(17.0),
		ReportOutputDir:  "./reportes",
		ReportCacheTTL:   30 * time.Second,
		ReportCacheSize:  64,
		DataTables:       []string{"ventas", "gastos_operativos"},
		MigrationWorkers: 1,
		InsertBatchSize:  100,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite backend config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid memory backend without sqlite path",
			mutate:  func(c *Config) { c.DataBackend = "memory"; c.SQLiteDBPath = "" },
			wantErr: false,
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [sqlite memory]",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "zero exchange rate",
			mutate:      func(c *Config) { c.ExchangeRate = decimal.Zero },
			wantErr:     true,
			errorString: "invalid exchange rate 0: must be greater than zero",
		},
		{
			name:        "empty output dir",
			mutate:      func(c *Config) { c.ReportOutputDir = "  " },
			wantErr:     true,
			errorString: "report output directory cannot be empty",
		},
		{
			name:    "cache disabled",
			mutate:  func(c *Config) { c.ReportCacheTTL = 0; c.ReportCacheSize = 0 },
			wantErr: false,
		},
		{
			name:        "negative cache ttl",
			mutate:      func(c *Config) { c.ReportCacheTTL = -time.Second },
			wantErr:     true,
			errorString: "invalid report cache TTL -1s: cannot be negative",
		},
		{
			name:        "enabled cache without size",
			mutate:      func(c *Config) { c.ReportCacheSize = 0 },
			wantErr:     true,
			errorString: "invalid report cache size 0: must be at least 1",
		},
		{
			name:        "empty table list",
			mutate:      func(c *Config) { c.DataTables = nil },
			wantErr:     true,
			errorString: "migration table list cannot be empty",
		},
		{
			name:        "duplicate table",
			mutate:      func(c *Config) { c.DataTables = []string{"ventas", "abonos", "ventas"} },
			wantErr:     true,
			errorString: "migration table list contains 'ventas' more than once",
		},
		{
			name:        "invalid workers - too small",
			mutate:      func(c *Config) { c.MigrationWorkers = 0 },
			wantErr:     true,
			errorString: "invalid migration workers 0: must be at least 1",
		},
		{
			name:        "invalid workers - too large",
			mutate:      func(c *Config) { c.MigrationWorkers = 64 },
			wantErr:     true,
			errorString: "invalid migration workers 64: must be at most 32",
		},
		{
			name:        "invalid batch size - too large",
			mutate:      func(c *Config) { c.InsertBatchSize = 2000 },
			wantErr:     true,
			errorString: "invalid insert batch size 2000: must be at most 1000",
		},
		{
			name:        "invalid timeout",
			mutate:      func(c *Config) { c.DBTimeout = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid database timeout 500ms: must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DataBackend = "nope"
	cfg.InsertBatchSize = 0
	cfg.MigrationWorkers = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid data backend", "invalid insert batch size 0", "invalid migration workers 0"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestConfig_ValidateCreatesSQLiteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := validConfig()
	cfg.SQLiteDBPath = filepath.Join(dir, "agencia.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"DATA_BACKEND", "SQLITE_DB_PATH", "DATABASE_DSN", "EXCHANGE_RATE",
		"REPORT_OUTPUT_DIR", "MIGRATION_TABLES", "SEQUENCE_TABLES",
		"MIGRATION_WORKERS", "INSERT_BATCH_SIZE", "DB_TIMEOUT", "LOG_LEVEL",
		"REPORT_CACHE_TTL", "REPORT_CACHE_SIZE",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/agencia.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/agencia.db", cfg.SQLiteDBPath)
		}
		if !cfg.UsesDefaultDSN() {
			t.Errorf("Load() DatabaseDSN = %v, want default", cfg.DatabaseDSN)
		}
		if !cfg.ExchangeRate.Equal(decimal.NewFromInt(17)) {
			t.Errorf("Load() ExchangeRate = %v, want 17", cfg.ExchangeRate)
		}
		if len(cfg.DataTables) != len(DefaultDataTables) || cfg.DataTables[0] != "categorias_gastos" {
			t.Errorf("Load() DataTables = %v", cfg.DataTables)
		}
		if len(cfg.SequenceTables) != len(cfg.DataTables) {
			t.Errorf("Load() SequenceTables = %v, want same as data tables", cfg.SequenceTables)
		}
		if cfg.ReportCacheTTL != 30*time.Second || cfg.ReportCacheSize != 64 {
			t.Errorf("Load() cache = %v/%d, want 30s/64", cfg.ReportCacheTTL, cfg.ReportCacheSize)
		}
		if cfg.MigrationWorkers != 1 || cfg.InsertBatchSize != 100 {
			t.Errorf("Load() workers/batch = %d/%d", cfg.MigrationWorkers, cfg.InsertBatchSize)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "memory")
		t.Setenv("EXCHANGE_RATE", "18,5")
		t.Setenv("MIGRATION_TABLES", "ventas, abonos ,,gastos_operativos")
		t.Setenv("SEQUENCE_TABLES", "ventas")
		t.Setenv("MIGRATION_WORKERS", "4")
		t.Setenv("DB_TIMEOUT", "3s")

		cfg := Load()

		if cfg.DataBackend != "memory" {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if !cfg.ExchangeRate.Equal(decimal.NewFromFloat(18.5)) {
			t.Errorf("Load() ExchangeRate = %v, want 18.5", cfg.ExchangeRate)
		}
		if strings.Join(cfg.DataTables, "|") != "ventas|abonos|gastos_operativos" {
			t.Errorf("Load() DataTables = %v", cfg.DataTables)
		}
		if len(cfg.SequenceTables) != 1 || cfg.SequenceTables[0] != "ventas" {
			t.Errorf("Load() SequenceTables = %v", cfg.SequenceTables)
		}
		if cfg.MigrationWorkers != 4 {
			t.Errorf("Load() MigrationWorkers = %v, want 4", cfg.MigrationWorkers)
		}
		if cfg.DBTimeout != 3*time.Second {
			t.Errorf("Load() DBTimeout = %v, want 3s", cfg.DBTimeout)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("INSERT_BATCH_SIZE", "invalid")
		t.Setenv("EXCHANGE_RATE", "abc")
		t.Setenv("DB_TIMEOUT", "invalid")

		cfg := Load()

		if cfg.InsertBatchSize != 100 {
			t.Errorf("Load() InsertBatchSize = %v, want 100 (default for invalid input)", cfg.InsertBatchSize)
		}
		if !cfg.ExchangeRate.Equal(decimal.NewFromInt(17)) {
			t.Errorf("Load() ExchangeRate = %v, want 17 (default for invalid input)", cfg.ExchangeRate)
		}
		if cfg.DBTimeout != 10*time.Second {
			t.Errorf("Load() DBTimeout = %v, want 10s (default for invalid input)", cfg.DBTimeout)
		}
	})
}
