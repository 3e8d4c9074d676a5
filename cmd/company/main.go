package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/crm/internal/company/config"
	"github.com/gartstein/crm/internal/company/controller"
	"github.com/gartstein/crm/internal/company/db"
	"github.com/gartstein/crm/internal/company/events"
	"github.com/gartstein/crm/internal/company/handlers"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// the logger level comes from config, so fall back to a default one
		zap.Must(zap.NewProduction()).Fatal("failed to load config", zap.Error(err))
	}

	logger := initLogger(cfg.LogLevel)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	repo, err := connectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	var producer controller.EventProducer
	if cfg.KafkaEnabled() {
		p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
		}
		defer p.Close()
		producer = p
	} else {
		logger.Info("KAFKA_BROKERS not set, change events disabled")
		producer = events.NewNopProducer(logger)
	}

	companySvc := controller.NewCompanyService(repo, producer, logger)
	companyHandler := handlers.NewCompanyHandler(companySvc, logger)

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	server.RegisterHTTPHandler(handlers.NewRouter(companyHandler, cfg.Router(), logger))
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, mutating routes are unauthenticated")
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start servers", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger returns a development logger for LOG_LEVEL=debug and a
// production logger otherwise.
func initLogger(level string) *zap.Logger {
	if level == "debug" {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}

// connectDatabase retries until the database accepts connections or
// cfg.DBRetryMax elapses.
func connectDatabase(cfg *config.Config, logger *zap.Logger) (*db.Repository, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.DBRetryMax
	b.MaxInterval = 5 * time.Second

	return backoff.RetryNotifyWithData(func() (*db.Repository, error) {
		return db.NewRepository(cfg.Database())
	}, b, func(err error, next time.Duration) {
		logger.Warn("database not ready, retrying",
			zap.Error(err),
			zap.Duration("retry_in", next),
		)
	})
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Servers stopped properly")
}
