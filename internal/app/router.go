package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"transit/internal/handler"
	"transit/internal/middleware"
	"transit/internal/ws"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler       *handler.TripHandler
	PaymentHandler    *handler.PaymentHandler
	RatingHandler     *handler.RatingHandler
	RequestHandler    *handler.RequestHandler
	WithdrawalHandler *handler.WithdrawalHandler
	DriverHandler     *handler.DriverHandler
	UserHandler       *handler.UserHandler
	RouteHandler      *handler.RouteHandler
	MessageHandler    *handler.MessageHandler
	LocationHub       *ws.Hub
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Live driver position stream.
	if deps.LocationHub != nil {
		router.GET("/ws/locations", gin.WrapF(deps.LocationHub.ServeWS))
	}

	// API v1 routes. Everything below requires an identity.
	v1 := router.Group("/v1")
	v1.Use(middleware.ActorMiddleware())
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.ListUsers)
			users.GET("/:id", deps.UserHandler.GetUser)
		}

		// Route and stop catalogs.
		v1.GET("/routes", deps.RouteHandler.ListRoutes)
		v1.GET("/routes/fare", deps.RouteHandler.GetFare)
		v1.GET("/stops", deps.RouteHandler.ListStops)

		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.ListTrips)
			trips.GET("/today", deps.TripHandler.ListToday)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/assign", deps.TripHandler.AssignDriver)
			trips.POST("/:id/confirm", deps.TripHandler.ConfirmTrip)
			trips.POST("/:id/start", deps.TripHandler.StartTrip)
			trips.POST("/:id/complete", deps.TripHandler.CompleteTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)
		}

		// Payment and receipt routes.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.InitiatePayment)
			payments.GET("", deps.PaymentHandler.ListPayments)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
			payments.POST("/:id/confirm", deps.PaymentHandler.ConfirmPayment)
			payments.POST("/:id/refund", deps.PaymentHandler.RefundPayment)
			payments.GET("/:id/receipt", deps.PaymentHandler.GetReceipt)
		}
		v1.POST("/receipts/:id/verify", deps.PaymentHandler.VerifyReceipt)

		// Rating routes.
		ratings := v1.Group("/ratings")
		{
			ratings.POST("", deps.RatingHandler.SubmitRating)
			ratings.GET("/attention", deps.RatingHandler.ListAttention)
			ratings.POST("/:id/respond", deps.RatingHandler.RespondToRating)
		}

		// Special request routes.
		requests := v1.Group("/requests")
		{
			requests.POST("", deps.RequestHandler.CreateRequest)
			requests.GET("", deps.RequestHandler.ListRequests)
			requests.GET("/:id", deps.RequestHandler.GetRequest)
			requests.POST("/:id/assign", deps.RequestHandler.AssignRequest)
			requests.POST("/:id/status", deps.RequestHandler.TransitionRequest)
		}

		// Withdrawal routes.
		withdrawals := v1.Group("/withdrawals")
		{
			withdrawals.POST("", deps.WithdrawalHandler.CreateWithdrawal)
			withdrawals.GET("", deps.WithdrawalHandler.ListWithdrawals)
			withdrawals.GET("/balance", deps.WithdrawalHandler.GetBalance)
			withdrawals.GET("/:id", deps.WithdrawalHandler.GetWithdrawal)
			withdrawals.POST("/:id/process", deps.WithdrawalHandler.ProcessWithdrawal)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.RegisterDriver)
			drivers.GET("", deps.DriverHandler.ListDrivers)
			drivers.GET("/nearby", deps.DriverHandler.Nearby)
			drivers.GET("/ranking", deps.RatingHandler.GetRanking)
			drivers.POST("/location", deps.DriverHandler.ReportLocation)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.POST("/:id/status", deps.DriverHandler.SetStatus)
			drivers.GET("/:id/ratings", deps.RatingHandler.ListDriverRatings)
			drivers.GET("/:id/stats", deps.RatingHandler.GetDriverStats)
		}

		// Message routes.
		messages := v1.Group("/messages")
		{
			messages.POST("", deps.MessageHandler.SendMessage)
			messages.GET("", deps.MessageHandler.ListMessages)
			messages.POST("/:id/read", deps.MessageHandler.MarkRead)
		}
	}

	return router
}
