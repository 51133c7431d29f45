package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/db/postgres"
	providers "github.com/hts-platform/order-intake/db/postgres/providers"
	"github.com/hts-platform/order-intake/jobs/outboxrelay"
	"github.com/hts-platform/order-intake/repository"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No env file loaded: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	postgresClient := postgres.ConnectDB()
	defer postgresClient.Stop()

	dbHelper, err := providers.NewDbProvider(postgresClient.PostgresClient)
	if err != nil {
		logger.Fatal("failed to initialize DB helper", zap.Error(err))
	}

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}
	topic := os.Getenv("KAFKA_ORDER_TOPIC")
	if topic == "" {
		topic = "order-events"
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // events for one order stay on one partition
		RequiredAcks: kafka.RequireAll,
	}
	defer writer.Close()

	relay := outboxrelay.New(repository.NewOutboxRepository(dbHelper), writer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("outbox relay running", zap.String("topic", topic))
	if err := relay.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("relay stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
