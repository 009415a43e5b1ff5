package main

import (
	"context"
	"net/http"
	"time"

	"finrecon/internal/amqp"
	"finrecon/internal/cli"
	apphttp "finrecon/internal/http"
	"finrecon/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting finrecon", "backend", cfg.DataBackend, "port", cfg.Port)

	storeResult := cli.InitStore(logger, cfg)

	// AMQP is optional: without it statement imports run synchronously
	// inside the API process.
	var publisher services.ImportPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, imports will run synchronously", "error", err)
		} else {
			publisher = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	importSvc := services.NewImportService(storeResult.Store, publisher)
	dashboard := services.NewDashboardService(storeResult.Store)

	srv := apphttp.NewServer(":"+cfg.Port, storeResult.Store, importSvc, dashboard, cfg.CacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if err := storeResult.Cleanup(); err != nil {
			logger.Error("Store cleanup error", "error", err)
		}
	})

	logger.Info("HTTP server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server error", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
}
