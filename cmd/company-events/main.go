// company-events follows the company change topic and logs every event.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/crm/internal/company/config"
	"github.com/gartstein/crm/internal/company/events"
	"go.uber.org/zap"
)

const defaultGroupID = "company-activity"

func main() {
	logger := zap.Must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if !cfg.KafkaEnabled() {
		logger.Fatal("KAFKA_BROKERS is required", zap.Error(errors.New("no brokers configured")))
	}

	groupID := os.Getenv("CONSUMER_GROUP")
	if groupID == "" {
		groupID = defaultGroupID
	}

	consumer := events.NewConsumer(cfg.KafkaBrokers, groupID, cfg.Topic, logger)
	defer consumer.Close()
	consumer.RegisterHandler(events.LogHandler(logger.Named("activity")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Consuming company events",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.Topic),
		zap.String("group_id", groupID),
	)
	consumer.Run(ctx)
	logger.Info("Consumer stopped")
}
