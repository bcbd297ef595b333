// Command migrador seeds the local SQLite store and moves its schema and rows
// into Postgres.
//
//	migrador [-workers n] seed|schema|data|all|sequences
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"agencia/internal/cli"
	"agencia/internal/config"
	"agencia/internal/log"
	"agencia/internal/migrator"
	"agencia/internal/presenter"
	"agencia/internal/storage"
)

func main() {
	workers := flag.Int("workers", 0, "Concurrent sequence repairs (overrides MIGRATION_WORKERS)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] seed|schema|data|all|sequences\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)
	if !validCommand(command) {
		flag.Usage()
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Stderr)
	cfg := cli.LoadAndValidateConfig(logger)
	if *workers > 0 {
		cfg.MigrationWorkers = *workers
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if command == log.OpSeed {
		if err := seed(ctx, cfg); err != nil {
			logger.Error("Seed failed", log.FieldError, err, log.FieldPath, cfg.SQLiteDBPath)
			os.Exit(1)
		}
		return
	}

	report, err := migrate(ctx, cfg, command)
	presenter.NewConsole(os.Stdout).RunReport(report)
	if err != nil {
		logger.Error("Migration stopped", log.FieldError, err, log.FieldState, report.State)
		os.Exit(1)
	}
	if report.Failed() {
		os.Exit(1)
	}
}

func validCommand(command string) bool {
	switch command {
	case log.OpSeed, log.OpSchema, log.OpData, log.OpSequences, "all":
		return true
	}
	return false
}

func seed(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	version, err := storage.RunMigrations(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	log.FromContext(ctx).InfoContext(ctx, "SQLite store ready",
		log.FieldOperation, log.OpSeed,
		log.FieldPath, cfg.SQLiteDBPath,
		"version", version,
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// migrate runs one migration command against freshly opened stores. The
// returned report holds whatever outcomes were produced before an error.
func migrate(ctx context.Context, cfg *config.Config, command string) (migrator.RunReport, error) {
	logger := log.FromContext(ctx)
	report := migrator.RunReport{State: migrator.StateInit}

	src, err := cli.OpenSource(logger, cfg.SQLiteDBPath)
	if err != nil {
		return report, err
	}
	defer src.Close()
	dst, err := cli.OpenDestination(ctx, logger, cfg)
	if err != nil {
		return report, err
	}
	defer dst.Close()

	m := migrator.New(src, dst, migrator.Options{
		DataTables:     cfg.DataTables,
		SequenceTables: cfg.SequenceTables,
		Workers:        cfg.MigrationWorkers,
	}, logger)

	switch command {
	case log.OpSchema:
		report.State = migrator.StateSchema
		report.Schema, err = m.SchemaPhase(ctx)
	case log.OpData:
		report.State = migrator.StateData
		report.Data, err = m.DataPhase(ctx)
	case log.OpSequences:
		report.Sequences, err = m.RepairSequences(ctx)
	case "all":
		report, err = m.Run(ctx)
		if err != nil {
			return report, err
		}
		report.Sequences, err = m.RepairSequences(ctx)
	default:
		return report, fmt.Errorf("unknown command %q", command)
	}
	if err == nil {
		report.State = migrator.StateDone
	}
	return report, err
}
