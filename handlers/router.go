package handlers

import (
	"fmt"
	"time"

	"iaviajes/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig holds what NewRouter needs beyond the handlers.
type RouterConfig struct {
	AllowedOrigins    []string
	RequestsPerMinute int

	// TrustedProxies may set X-Forwarded-For. Empty trusts none, so the
	// client IP is the peer address.
	TrustedProxies []string
	Logger         *zap.Logger
}

// NewRouter builds the engine with middleware and the /api routes.
func NewRouter(cfg RouterConfig, trip *TripHandler, pdf *PDFHandler, health *HealthHandler) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewRateLimiter(cfg.RequestsPerMinute, cfg.Logger)

	api := r.Group("/api")
	{
		api.GET("/health", health.Health)
		api.POST("/generate-trip", limiter.Handler(), trip.GenerateTrip)
		api.POST("/itinerary/pdf", pdf.Download)
	}

	return r, nil
}
