package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"freight/internal/handler"
	"freight/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler     *handler.TripHandler
	TrackingHandler *handler.TrackingHandler
	DriverHandler   *handler.DriverHandler
	InvoiceHandler  *handler.InvoiceHandler
	CityHandler     *handler.CityHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.Book)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.DELETE("/:id", deps.TripHandler.Delete)
			trips.POST("/:id/transition", deps.TripHandler.Transition)
			trips.GET("/:id/cancellation-quote", deps.TripHandler.CancellationQuote)
			trips.POST("/:id/invoice", deps.TripHandler.CreateInvoice)
			trips.POST("/:id/location", deps.TrackingHandler.Ingest)
			trips.GET("/:id/location", deps.TrackingHandler.Latest)
			trips.GET("/:id/location/history", deps.TrackingHandler.History)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/available", deps.DriverHandler.Available)
			drivers.POST("/:id/tracking", deps.DriverHandler.SetTracking)
		}

		// Invoice routes.
		invoices := v1.Group("/invoices")
		{
			invoices.GET("/:id", deps.InvoiceHandler.GetInvoice)
		}

		// City routes.
		cities := v1.Group("/cities")
		{
			cities.GET("", deps.CityHandler.GetAll)
			cities.GET("/resolve", deps.CityHandler.Resolve)
		}

		// Fleet overview for the dispatcher console.
		v1.GET("/fleet/positions", deps.TrackingHandler.FleetPositions)
	}

	return router
}
