// Package postgres is the destination store of the migration.
package postgres

import (
	"context"
	"fmt"
	"time"

	"agencia/internal/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultBatchSize = 100

type Store struct {
	db        *gorm.DB
	batchSize int
	logger    *log.Logger
}

type Options struct {
	Timeout   time.Duration
	BatchSize int
	MaxConns  int
}

// Open connects to dsn and pings it within opts.Timeout.
func Open(ctx context.Context, dsn string, opts Options, logger *log.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %s", Describe(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if opts.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxConns)
		sqlDB.SetMaxIdleConns(opts.MaxConns)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %s", Describe(err))
	}

	return newStore(db, opts.BatchSize, logger), nil
}

func newStore(db *gorm.DB, batchSize int, logger *log.Logger) *Store {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		db:        db,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentPostgres),
	}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// ExecDDL implements migrator.Destination
func (s *Store) ExecDDL(ctx context.Context, stmt string) error {
	if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("exec ddl: %s", Describe(err))
	}
	return nil
}

// InsertRows implements migrator.Destination. Rows go in batches inside a
// single transaction; any failure rolls the whole table back. It returns
// how many rows were actually inserted (conflicts are not counted).
// Integer flags bound for boolean columns are sent as bools.
func (s *Store) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	var inserted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var names []string
		if err := tx.Raw(booleanColumns, table).Scan(&names).Error; err != nil {
			return fmt.Errorf("read boolean columns: %s", Describe(err))
		}
		if len(names) > 0 {
			boolCols := make(map[string]bool, len(names))
			for _, n := range names {
				boolCols[n] = true
			}
			rows = CoerceBooleans(columns, rows, boolCols)
		}

		for start := 0; start < len(rows); start += s.batchSize {
			end := min(start+s.batchSize, len(rows))
			stmt, args := BuildInsert(table, columns, rows[start:end])
			res := tx.Exec(stmt, args...)
			if res.Error != nil {
				return fmt.Errorf("insert rows %d-%d: %s", start+1, end, Describe(res.Error))
			}
			inserted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.DebugContext(ctx, "Rows inserted",
		log.FieldTable, table,
		log.FieldRows, len(rows),
		log.FieldInserted, inserted)
	return inserted, nil
}

// RepairSequence implements migrator.Destination. It recreates the table's
// id sequence to start after the current maximum id and returns that next id.
func (s *Store) RepairSequence(ctx context.Context, table string) (int64, error) {
	var next int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		q := fmt.Sprintf("SELECT COALESCE(MAX(id), 0) FROM %s", QuoteIdent(table))
		if err := tx.Raw(q).Scan(&maxID).Error; err != nil {
			return fmt.Errorf("read max id: %s", Describe(err))
		}
		next = maxID + 1
		for _, stmt := range SequenceStatements(table, next) {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("rebuild sequence: %s", Describe(err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.DebugContext(ctx, "Sequence rebuilt", log.FieldTable, table, log.FieldNextID, next)
	return next, nil
}
