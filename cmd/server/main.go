/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift pay engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, YAML file, .env, environment, flags)
  2. Build the zap logger
  3. Open the SQLite store
  4. Initialize the roster service (seed rates and holidays on first run)
  5. Start the background recalculator
  6. Configure the HTTP router and serve

COMMAND-LINE FLAGS:
  -config  YAML configuration file (optional)
  -port    HTTP server port, overrides config
  -db      SQLite database path, overrides config
           Use ":memory:" for in-memory database

ENVIRONMENT:
  SHIFTPAY_PORT, SHIFTPAY_DB, SHIFTPAY_ENV, SHIFTPAY_LOG_LEVEL,
  SHIFTPAY_RATES. A .env file in the working directory is read first.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (shutdown timeout)
  3. Stop the recalculator
  4. Close database connection

EXAMPLES:
  ./server -db="./data/shiftpay.db"
  ./server -config=shiftpay.yaml -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration sources
  - roster/recalculator.go: Background repricing
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/shift-pay-engine/api"
	"github.com/warp/shift-pay-engine/config"
	"github.com/warp/shift-pay-engine/factory"
	"github.com/warp/shift-pay-engine/holiday"
	"github.com/warp/shift-pay-engine/logging"
	"github.com/warp/shift-pay-engine/roster"
	"github.com/warp/shift-pay-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "", "YAML configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Env:   cfg.Logging.Env,
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	// Initialize store
	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		logger.Error("failed to initialize database", zap.String("path", cfg.Server.DBPath), zap.Error(err))
		return err
	}
	defer store.Close()

	rf := factory.NewRateFactory()
	seed := rf.Defaults()
	if cfg.Rates.File != "" {
		if seed, err = rf.LoadRatesFile(cfg.Rates.File); err != nil {
			logger.Error("failed to load rate file", zap.String("path", cfg.Rates.File), zap.Error(err))
			return err
		}
	}

	payPeriod, err := cfg.Payroll.PeriodConfig()
	if err != nil {
		return err
	}

	// The recalculator needs the service and the service's hook needs the
	// recalculator, so the hook captures the variable.
	var recalc *roster.Recalculator
	svc := roster.NewService(store,
		roster.WithLogger(logger.Named("roster")),
		roster.WithWorkers(cfg.Recalc.Workers, cfg.Recalc.Batch),
		roster.WithPayPeriod(payPeriod),
		roster.WithRatesChangedHook(func() { recalc.Trigger() }),
	)
	recalc = roster.NewRecalculator(svc, cfg.Recalc.Interval, logger.Named("recalc"))

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	err = svc.Init(initCtx, seed, holiday.DefaultRules())
	cancelInit()
	if err != nil {
		logger.Error("failed to initialize roster service", zap.Error(err))
		return err
	}
	active := svc.Rates()
	logger.Info("rates loaded", zap.Int("version", active.Version), zap.String("name", active.Name))

	recalc.Start()
	defer recalc.Stop()

	handler := api.NewHandler(svc, logger.Named("api"))
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("db", cfg.Server.DBPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
