package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	authapp "stayfinder/internal/app/auth"
	bookingapp "stayfinder/internal/app/booking"
	"stayfinder/internal/app/events"
	listingapp "stayfinder/internal/app/listing"
	domainbooking "stayfinder/internal/domain/booking"
	domainlisting "stayfinder/internal/domain/listing"
	domainuser "stayfinder/internal/domain/user"
	"stayfinder/internal/infra/broker/kafka"
	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/db/mongo"
	ginserver "stayfinder/internal/infra/http/gin"
	"stayfinder/internal/infra/obs"
	"stayfinder/internal/infra/security"
	"stayfinder/internal/infra/storage/memory"
	"stayfinder/internal/infra/storage/s3"
)

func main() {
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(getenv("APP_ENV", "dev")).Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	stores, ready, closeStores, err := buildStores(cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer closeStores()

	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()

	uploader := buildUploader(cfg, logger)

	authService := &authapp.Service{
		Users:     stores.users,
		Passwords: security.BcryptHasher{},
		Tokens:    security.JWTManager{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL},
		Logger:    logger,
	}
	listingService := &listingapp.Service{
		Listings: stores.listings,
		Photos:   uploader,
		Events:   publisher,
		Logger:   logger,
	}
	bookingService := &bookingapp.Service{
		Listings: stores.listings,
		Bookings: stores.bookings,
		Events:   publisher,
		Logger:   logger,
	}

	router := ginserver.NewRouter(cfg,
		obs.Middleware{Logger: logger},
		obs.HealthHandlers{Ready: ready},
		ginserver.Handlers{
			Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
			Listing:        ginserver.ListingHandler{Service: listingService, Logger: logger},
			Booking:        ginserver.BookingHandler{Service: bookingService, Logger: logger},
			AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
		})
	server := ginserver.NewServer(cfg, router)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type stores struct {
	users    domainuser.Repository
	listings domainlisting.Repository
	bookings domainbooking.Repository
}

func buildStores(cfg config.Config, logger *slog.Logger) (stores, func() error, func(), error) {
	if cfg.Storage == "mongo" {
		client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return stores{}, nil, nil, err
		}
		ready := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(ctx)
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(ctx); err != nil {
				logger.Error("mongo disconnect failed", "error", err)
			}
		}
		return stores{
			users:    mongo.NewUserRepository(client.DB),
			listings: mongo.NewListingRepository(client.DB),
			bookings: mongo.NewBookingRepository(client.DB),
		}, ready, closeFn, nil
	}

	logger.Info("using in-memory storage")
	return stores{
		users:    memory.NewUserRepository(),
		listings: memory.NewListingRepository(),
		bookings: memory.NewBookingRepository(),
	}, func() error { return nil }, func() {}, nil
}

func buildPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka brokers not configured, events disabled")
		return events.Nop{}, func() {}
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
	if err != nil {
		logger.Error("kafka producer init failed, events disabled", "error", err)
		return events.Nop{}, func() {}
	}
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
}

func buildUploader(cfg config.Config, logger *slog.Logger) listingapp.Uploader {
	client, err := s3.NewClient(s3.Options{
		Endpoint:       cfg.S3Endpoint,
		PublicEndpoint: cfg.S3PublicEndpoint,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		UseSSL:         cfg.S3UseSSL,
	}, logger)
	if err != nil {
		logger.Warn("s3 uploader unavailable, photo upload disabled", "error", err)
		return nil
	}
	return client
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
