package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/backend/config"
	"github.com/skyfare/backend/internal/bootstrap"
	"github.com/skyfare/backend/internal/cache"
	"github.com/skyfare/backend/internal/catalog"
	"github.com/skyfare/backend/internal/fare"
	"github.com/skyfare/backend/internal/kafka"
	"github.com/skyfare/backend/internal/logging"
	"github.com/skyfare/backend/internal/monitoring"
	"github.com/skyfare/backend/internal/repository"
	"github.com/skyfare/backend/internal/service/booking"
	"github.com/skyfare/backend/internal/service/flights"
	"github.com/skyfare/backend/internal/service/wallet"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.NewLoggerWithService("skyfare-api", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	metrics := monitoring.NewMetrics("skyfare-api")
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.SearchCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tracker := fare.NewTracker(fare.Config{
		EscalationThreshold: cfg.Fare.EscalationThreshold,
		MarkupPercent:       cfg.Fare.MarkupPercent,
		Cooldown:            time.Duration(cfg.Fare.CooldownMinutes) * time.Minute,
		SweepInterval:       time.Duration(cfg.Fare.SweepSeconds) * time.Second,
	}, logger, fare.WithMetrics(metrics))
	go tracker.Sweep(ctx)

	walletRepo := repository.NewWalletRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	flightService := flights.NewFlightService(catalog.NewGenerator(time.Now().UnixNano()), redisCache, tracker)
	walletService := wallet.NewWalletService(walletRepo, cfg.Wallet.InitialGrant, logger, wallet.WithMetrics(metrics))
	bookingService := booking.NewBookingService(
		bookingRepo,
		tracker,
		walletService,
		producer,
		cfg.Kafka.BookingTopic,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMetrics(metrics),
	)

	if err := bootstrap.Run(ctx, cfg, logger, metrics, flightService, walletService, bookingService); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
