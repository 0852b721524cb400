package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/config"
	"github.com/solestep/solestep-api/internal/auth"
	customerhandler "github.com/solestep/solestep-api/internal/customer/handler"
	customerrepo "github.com/solestep/solestep-api/internal/customer/repository"
	customeruc "github.com/solestep/solestep-api/internal/customer/usecase"
	"github.com/solestep/solestep-api/internal/middleware"
	"github.com/solestep/solestep-api/internal/platform/broker"
	"github.com/solestep/solestep-api/internal/platform/logger"
	"github.com/solestep/solestep-api/internal/platform/postgres"
	producthandler "github.com/solestep/solestep-api/internal/product/handler"
	productrepo "github.com/solestep/solestep-api/internal/product/repository"
	productuc "github.com/solestep/solestep-api/internal/product/usecase"
	salehandler "github.com/solestep/solestep-api/internal/sale/handler"
	"github.com/solestep/solestep-api/internal/sale/publisher"
	salerepo "github.com/solestep/solestep-api/internal/sale/repository"
	saleuc "github.com/solestep/solestep-api/internal/sale/usecase"
	"github.com/solestep/solestep-api/internal/server"
	userhandler "github.com/solestep/solestep-api/internal/user/handler"
	userrepo "github.com/solestep/solestep-api/internal/user/repository"
	useruc "github.com/solestep/solestep-api/internal/user/usecase"
	"github.com/solestep/solestep-api/migrations"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if err := postgres.Migrate(db, migrations.FS, "."); err != nil {
		appLogger.Fatal("Could not apply migrations", zap.Error(err))
	}

	// 4. Initialize Components
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.TokenTTL)

	userRepo := userrepo.NewPGRepository(db)
	userUC := useruc.NewUserUseCase(userRepo, jwtManager, appLogger)
	userHandler := userhandler.NewUserHandler(userUC, appLogger)

	customerRepo := customerrepo.NewPGRepository(db)
	customerUC := customeruc.NewCustomerUseCase(customerRepo, appLogger)
	customerHandler := customerhandler.NewCustomerHandler(customerUC, appLogger)

	productRepo := productrepo.NewPGRepository(db)
	productUC := productuc.NewProductUseCase(productRepo, appLogger)
	productHandler := producthandler.NewProductHandler(productUC, appLogger)

	var salePublisher saleuc.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		salePublisher = publisher.NewSalePublisher(producer, appLogger)
		appLogger.Info("Connected to Kafka producer",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	saleRepo := salerepo.NewPGRepository(db)
	saleUC := saleuc.NewSaleUseCase(saleRepo, salePublisher, appLogger)
	saleHandler := salehandler.NewSaleHandler(saleUC, appLogger)

	authMW := middleware.NewAuthMiddleware(jwtManager, userUC, appLogger)

	engine := server.New(cfg.Server.AppEnv, authMW, server.Handlers{
		Users:     userHandler,
		Customers: customerHandler,
		Products:  productHandler,
		Sales:     saleHandler,
	})

	// 5. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: engine,
	}

	appLogger.Info("Starting SoleStep POS HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}

	appLogger.Info("Server stopped")
}
