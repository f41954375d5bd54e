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

	"transit/internal/app"
	"transit/internal/config"
	"transit/internal/handler"
	internalRedis "transit/internal/redis"
	"transit/internal/repository/postgres"
	"transit/internal/service"
	"transit/internal/ws"
)

func main() {
	// Load configuration.
	cfg := config.Load()

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

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

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
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Live driver location stream.
	locationHub := ws.NewHub()

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	receiptRepo := postgres.NewReceiptRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	withdrawalRepo := postgres.NewWithdrawalRepository(db)
	routeRepo := postgres.NewRouteRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService()
	gateway := service.NewSimulatedGateway(cfg.Gateway.SuccessRate, cfg.Gateway.MinDelay, cfg.Gateway.MaxDelay)
	account := service.CollectionAccount{
		Bank:    cfg.Account.Bank,
		Account: cfg.Account.Account,
		Payee:   cfg.Account.Payee,
	}

	tripService := service.NewTripService(db, tripRepo, driverRepo, routeRepo, notificationService)
	paymentService := service.NewPaymentService(db, paymentRepo, receiptRepo, routeRepo, gateway, lockStore, account, notificationService)
	ratingService := service.NewRatingService(ratingRepo, tripRepo, notificationService)
	statsService := service.NewStatsService(ratingRepo, tripRepo, cacheStore)
	requestService := service.NewRequestService(requestRepo, driverRepo, notificationService)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, paymentRepo, notificationService)
	driverService := service.NewDriverService(driverRepo, locationStore, locationHub)
	messageService := service.NewMessageService(messageRepo)

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	ratingHandler := handler.NewRatingHandler(ratingService, statsService)
	requestHandler := handler.NewRequestHandler(requestService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	driverHandler := handler.NewDriverHandler(driverService)
	userHandler := handler.NewUserHandler(userRepo)
	routeHandler := handler.NewRouteHandler(routeRepo)
	messageHandler := handler.NewMessageHandler(messageService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:       tripHandler,
		PaymentHandler:    paymentHandler,
		RatingHandler:     ratingHandler,
		RequestHandler:    requestHandler,
		WithdrawalHandler: withdrawalHandler,
		DriverHandler:     driverHandler,
		UserHandler:       userHandler,
		RouteHandler:      routeHandler,
		MessageHandler:    messageHandler,
		LocationHub:       locationHub,
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
