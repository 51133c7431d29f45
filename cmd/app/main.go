package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/accountclient"
	"github.com/hts-platform/order-intake/db/postgres"
	providers "github.com/hts-platform/order-intake/db/postgres/providers"
	"github.com/hts-platform/order-intake/repository"
	"github.com/hts-platform/order-intake/routes"
	orderService "github.com/hts-platform/order-intake/service"
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

	// 1. Connect PostgreSQL
	postgresClient := postgres.ConnectDB()
	defer postgresClient.Stop()

	// 1.1 Init Schema (optional — only for development)
	if err := postgresClient.InitSchema(); err != nil {
		logger.Fatal("failed to initialize database schema", zap.Error(err))
	}

	// 2. DB Helper
	dbHelper, err := providers.NewDbProvider(postgresClient.PostgresClient)
	if err != nil {
		logger.Fatal("failed to initialize DB helper", zap.Error(err))
	}

	// 3. Account service gateway
	accountAddr := os.Getenv("ACCOUNT_SERVICE_ADDR")
	if accountAddr == "" {
		accountAddr = "localhost:9090"
	}
	gateway, err := accountclient.DialGateway(accountAddr)
	if err != nil {
		logger.Fatal("failed to dial account service", zap.Error(err))
	}
	defer gateway.Close()
	accounts := accountclient.NewClient(gateway, logger)

	// 4. Repo & Service
	orderRepo := repository.NewOrderWriteRepository(dbHelper)
	orderSrv := orderService.NewOrderCommandService(accounts, orderRepo, logger)

	// 5. Gin Router & Handlers
	router := gin.Default()
	routes.RegisterRoutes(router, orderSrv, logger)

	// 6. Run REST API
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("order intake API running", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// 7. wait for OS signal to shutdown gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
