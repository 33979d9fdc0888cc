package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iaviajes/config"
	"iaviajes/handlers"
	"iaviajes/services"
	"iaviajes/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	providerTimeout = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.GinMode == gin.ReleaseMode || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	generator, closeGenerator, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize text generator", zap.Error(err))
	}
	defer closeGenerator()

	// Left nil when credentials are missing so the search reports itself disabled.
	var hotelProvider services.HotelProvider
	if cfg.HotelSearchEnabled() {
		amadeus := services.NewAmadeusClient(cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.AmadeusBaseURL(), 15*time.Second, logger)
		if err := amadeus.Warm(ctx); err != nil {
			logger.Warn("amadeus token warm-up failed, will retry on first request", zap.Error(err))
		}
		hotelProvider = amadeus
	} else {
		logger.Warn("AMADEUS_CLIENT_ID / AMADEUS_CLIENT_SECRET not set, hotel search disabled")
	}

	hotelSearch := services.NewHotelSearch(hotelProvider, logger)
	planner := services.NewTripPlanner(hotelSearch, generator, logger)

	router, err := handlers.NewRouter(
		handlers.RouterConfig{
			AllowedOrigins:    cfg.AllowedOrigins(),
			RequestsPerMinute: cfg.MaxRequestsPerMin,
			TrustedProxies:    cfg.TrustedProxyList(),
			Logger:            logger,
		},
		handlers.NewTripHandler(planner, logger),
		handlers.NewPDFHandler(logger),
		handlers.NewHealthHandler(hotelSearch.Enabled(), generator.Name()),
	)
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("generator", generator.Name()),
			zap.Bool("hotel_search", hotelSearch.Enabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

// newGenerator builds the backend named by LLM_PROVIDER. The returned func
// releases its resources.
func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.Generator, func(), error) {
	noop := func() {}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		g, err := services.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.LLMTemperature, providerTimeout, logger)
		if err != nil {
			return nil, noop, err
		}
		return g, noop, nil
	case config.ProviderHuggingFace:
		g, err := services.NewHuggingFaceGenerator(cfg.HuggingFaceAPIKey, cfg.HuggingFaceModel, cfg.HuggingFaceBaseURL, cfg.LLMTemperature, providerTimeout, logger)
		if err != nil {
			return nil, noop, err
		}
		return g, noop, nil
	case config.ProviderGemini:
		g, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTemperature, logger)
		if err != nil {
			return nil, noop, err
		}
		return g, func() {
			if err := g.Close(); err != nil {
				logger.Warn("gemini client close failed", zap.Error(err))
			}
		}, nil
	default:
		return nil, noop, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
