package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/booklytrip/booking/api"
	"github.com/booklytrip/booking/config"
	"github.com/booklytrip/booking/internal/bootstrap"
	"github.com/booklytrip/booking/internal/cache"
	"github.com/booklytrip/booking/internal/flightsapi"
	"github.com/booklytrip/booking/internal/kafka"
	"github.com/booklytrip/booking/internal/repository"
	"github.com/booklytrip/booking/internal/service/pricing"
	"github.com/booklytrip/booking/internal/service/reconciler"
	"github.com/jackc/pgx/v5/pgxpool"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.RulesCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	projectRepo := repository.NewProjectRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	markupRepo := repository.NewMarkupRepository(pool)

	flightsClient := flightsapi.NewClient(
		cfg.Flights.URL,
		time.Duration(cfg.Flights.TimeoutSeconds)*time.Second,
		cfg.Flights.MaxRetries,
	)

	reconcilerService := reconciler.NewReconcilerService(
		projectRepo,
		bookingRepo,
		redisCache,
		flightsClient,
		producer,
		time.Duration(cfg.Booking.PNRWindowDays)*24*time.Hour,
		time.Duration(cfg.Booking.LeaseTTLSeconds)*time.Second,
		reconciler.WithEventsTopic(cfg.Kafka.PaymentEventsTopic),
		reconciler.WithProductionMode(cfg.IsProduction()),
	)

	pricingService := pricing.NewPricingService(markupRepo, redisCache)

	payseraHandler := api.NewPayseraHandler(reconcilerService)
	markupHandler := api.NewMarkupHandler(markupRepo, redisCache)
	pricingHandler := api.NewPricingHandler(pricingService)

	if err := bootstrap.Run(ctx, cfg, payseraHandler, markupHandler, pricingHandler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
