package main

import (
	"time"

	"finrecon/internal/cli"
	"finrecon/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting finrecon-recurring")

	cfg := cli.LoadAndValidateConfig(logger)
	storeResult := cli.InitStore(logger, cfg)

	processor := services.NewRecurringProcessor(storeResult.Store)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := storeResult.Cleanup(); err != nil {
			logger.Error("Store cleanup error", "error", err)
		}
	})

	logger.Info("Recurring expense processor configured",
		"interval", cfg.RecurringInterval,
		"backend", cfg.DataBackend)

	run := func(now time.Time) {
		count, err := processor.ProcessDue(ctx, now)
		if err != nil {
			logger.Error("Recurring processing failed", "error", err)
			return
		}
		logger.Info("Recurring processing complete", "materialized", count)
	}

	// One pass at startup, then on the ticker.
	run(time.Now())

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				run(now)
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
