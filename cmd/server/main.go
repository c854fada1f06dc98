package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"travel/internal/app"
	"travel/internal/config"
	"travel/internal/gateway/chapa"
	"travel/internal/handler"
	"travel/internal/middleware"
	"travel/internal/queue"
	internalRedis "travel/internal/redis"
	"travel/internal/repository/postgres"
	"travel/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	// The gateway must be configured before anything is served.
	if err := cfg.Chapa.Validate(); err != nil {
		log.Fatalf("invalid payment gateway configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Notifications are best-effort; the API keeps serving without a broker.
	var publisher service.Publisher
	amqpPublisher, err := queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		log.Printf("[RabbitMQ] publisher unavailable, notifications will only be logged: %v", err)
	} else {
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Println("Connected to RabbitMQ")
	}

	gateway, err := chapa.NewClient(chapa.Config{
		SecretKey: cfg.Chapa.SecretKey,
		BaseURL:   cfg.Chapa.BaseURL,
		Timeout:   cfg.Chapa.Timeout,
	})
	if err != nil {
		log.Fatalf("failed to create Chapa client: %v", err)
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, gateway, publisher, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	gateway *chapa.Client,
	publisher service.Publisher,
	cfg *config.Config,
) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	listingRepo := postgres.NewListingRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	transactor := postgres.NewTransactor(db)

	// Initialize services.
	notificationService := service.NewNotificationService(publisher)
	listingService := service.NewListingService(listingRepo, cacheStore)
	bookingService := service.NewBookingService(bookingRepo)
	reviewService := service.NewReviewService(reviewRepo)
	paymentService := service.NewPaymentService(
		bookingRepo,
		paymentRepo,
		transactor,
		gateway,
		lockStore,
		notificationService,
		service.PaymentConfig{
			Currency:    cfg.Chapa.Currency,
			CallbackURL: cfg.Chapa.CallbackURL,
			ReturnURL:   cfg.Chapa.ReturnURL,
		},
	)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ListingHandler: handler.NewListingHandler(listingService),
		BookingHandler: handler.NewBookingHandler(bookingService),
		ReviewHandler:  handler.NewReviewHandler(reviewService),
		PaymentHandler: handler.NewPaymentHandler(paymentService),
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
