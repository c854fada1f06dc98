package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"travel/internal/handler"
	"travel/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ListingHandler *handler.ListingHandler
	BookingHandler *handler.BookingHandler
	ReviewHandler  *handler.ReviewHandler
	PaymentHandler *handler.PaymentHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	JWTSecret      string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NoticeErrors())
	}

	router.Use(middleware.Identity(deps.JWTSecret))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Creation endpoints replay responses for a repeated Idempotency-Key.
	create := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if deps.RedisClient == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{middleware.Idempotency(deps.RedisClient), h}
	}

	// Listing routes.
	listings := router.Group("/listings")
	{
		listings.GET("/", deps.ListingHandler.ListListings)
		listings.POST("/", create(deps.ListingHandler.CreateListing)...)
		listings.GET("/:id/", deps.ListingHandler.GetListing)
	}

	// Booking routes.
	bookings := router.Group("/bookings")
	{
		bookings.GET("/", deps.BookingHandler.ListBookings)
		bookings.POST("/", create(deps.BookingHandler.CreateBooking)...)
		bookings.GET("/:id/", deps.BookingHandler.GetBooking)
	}

	// Review routes.
	reviews := router.Group("/reviews")
	{
		reviews.GET("/", deps.ReviewHandler.ListReviews)
		reviews.POST("/", create(deps.ReviewHandler.CreateReview)...)
	}

	// Payment routes. Initialization always reaches the handler so the
	// current payment state decides the answer.
	payments := router.Group("/payments/chapa")
	if deps.RateLimiter != nil {
		payments.Use(deps.RateLimiter.Middleware())
	}
	payments.POST("/init/", deps.PaymentHandler.InitializePayment)
	payments.GET("/verify/:tx_ref/", deps.PaymentHandler.VerifyPayment)

	return router
}
