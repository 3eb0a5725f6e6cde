package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/melbourne-limo/service-booking/internal/application"
	"github.com/melbourne-limo/service-booking/internal/config"
	"github.com/melbourne-limo/service-booking/internal/handler"
	"github.com/melbourne-limo/service-booking/internal/platform/auth"
	"github.com/melbourne-limo/service-booking/internal/platform/database"
	"github.com/melbourne-limo/service-booking/internal/platform/health"
	"github.com/melbourne-limo/service-booking/internal/platform/kafka"
	"github.com/melbourne-limo/service-booking/internal/platform/logger"
	"github.com/melbourne-limo/service-booking/internal/platform/middleware"
	"github.com/melbourne-limo/service-booking/internal/repository"
	"github.com/melbourne-limo/service-booking/internal/routing"
	"github.com/melbourne-limo/service-booking/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("routing_provider", cfg.Routing.Provider),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize the pending-quote store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()
	quoteStore := session.NewRedisStore(redisClient, cfg.QuoteTTL)

	// Initialize JWT manager for the admin surface
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Select the routing provider
	resolver := newResolver(cfg.Routing)

	// Initialize repository and application service
	bookingRepo := repository.NewGormBookingRepository(db)
	bookingFlow := application.NewBookingFlow(
		bookingRepo,
		resolver,
		quoteStore,
		kafkaProducer,
		log,
	)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingFlow)
	adminHandler := handler.NewAdminBookingHandler(bookingFlow)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, redisClient, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}

// newResolver picks the mapping provider variant from configuration. The
// google variant detects tolls itself; the free osrm pair relies on the
// rider's toll checkbox.
func newResolver(cfg config.RoutingConfig) routing.Resolver {
	if cfg.Provider == "google" {
		return routing.NewGoogleResolver(routing.GoogleConfig{
			APIKey: cfg.GoogleAPIKey,
		})
	}
	return routing.NewOSRMResolver(routing.OSRMConfig{
		NominatimURL: cfg.NominatimURL,
		OSRMURL:      cfg.OSRMURL,
		CountryCodes: cfg.CountryCodes,
		UserAgent:    cfg.UserAgent,
	})
}
