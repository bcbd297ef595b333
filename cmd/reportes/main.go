package main

import (
	"os"

	"agencia/internal/backend"
	"agencia/internal/cli"
	"agencia/internal/finance"
	"agencia/internal/log"
	"agencia/internal/presenter"
	"agencia/internal/services"
	"agencia/internal/shell"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Stderr)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create data backend", log.FieldError, err, log.FieldBackend, backendCfg.Type)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Failed to close data backend", log.FieldError, err)
			}
		}()
	}

	source := result.Source
	if cfg.ReportCacheTTL > 0 {
		source = finance.NewCachedSource(source, cfg.ReportCacheSize, cfg.ReportCacheTTL)
	}

	agg := finance.NewAggregator(source, logger)
	reports := services.NewReportService(agg, cfg.ExchangeRate, logger)
	workbook := presenter.NewWorkbook(cfg.ReportOutputDir, logger)

	logger.Info("Starting report shell",
		log.FieldBackend, backendCfg.Type,
		"exchange_rate", reports.ExchangeRate().String(),
		"output_dir", cfg.ReportOutputDir)

	if err := shell.New(os.Stdin, os.Stdout, reports, workbook, logger).Run(ctx); err != nil {
		logger.Error("Shell stopped", log.FieldError, err)
		os.Exit(1)
	}
}
