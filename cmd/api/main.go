package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/coachlanding/internal/adapters/cache"
	"github.com/zatekoja/coachlanding/internal/adapters/memory"
	"github.com/zatekoja/coachlanding/internal/adapters/providers/scheduling"
	"github.com/zatekoja/coachlanding/internal/api/handlers"
	"github.com/zatekoja/coachlanding/internal/api/middleware"
	"github.com/zatekoja/coachlanding/internal/api/routes"
	"github.com/zatekoja/coachlanding/internal/application/services"
	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/domain/providers"
	"github.com/zatekoja/coachlanding/internal/infrastructure/clients/facebook"
	"github.com/zatekoja/coachlanding/internal/infrastructure/clients/redis"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	"github.com/zatekoja/coachlanding/pkg/config"
	"github.com/zatekoja/coachlanding/pkg/retry"
)

const companyCacheTTLSeconds = 600

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Token and response cache: Redis when enabled and reachable, in-process otherwise
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client, falling back to in-process cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, cfg.OTEL.ServiceName)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache initialized")
		}
	}
	if cacheProvider == nil {
		cacheProvider = cache.NewMemoryAdapter()
	}

	schedulingProvider := scheduling.NewSchedulingProvider(&cfg.SimplyBook, cacheProvider, metrics)

	units := make([]entities.ResourceUnit, 0, len(cfg.Schedule.Units))
	for _, u := range cfg.Schedule.Units {
		units = append(units, entities.ResourceUnit{ID: u.ID, Name: u.Name})
	}
	if len(units) == 0 {
		log.Warn().Msg("SIMPLYBOOK_UNITS is empty; availability will always be empty")
	}

	filter := services.NewSlotFilter(entities.WorkingHours{
		Days:  cfg.Schedule.WorkingDays,
		Start: cfg.Schedule.WorkStart,
		End:   cfg.Schedule.WorkEnd,
	}, cfg.Schedule.ServiceDuration)

	availabilityService := services.NewAvailabilityService(schedulingProvider, filter, units, cfg.Schedule.ServiceID)
	bookingService := services.NewBookingService(
		schedulingProvider,
		availabilityService,
		retry.FixedConfig(cfg.Booking.MaxAttempts, cfg.Booking.RetryDelay),
		metrics,
	)
	companyService := services.NewCompanyService(schedulingProvider)

	var sender providers.ConversionSender
	if cfg.Facebook.Enabled() {
		fbSender, err := facebook.NewConversionsSender(&cfg.Facebook, metrics)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Conversions API sender")
		} else {
			sender = fbSender
		}
	} else {
		log.Warn().Msg("FACEBOOK_PIXEL_ID or FACEBOOK_ACCESS_TOKEN not set; conversion reporting disabled")
	}
	conversionService := services.NewConversionService(
		sender,
		memory.NewEventHistory(cfg.Facebook.HistorySize),
		cfg.Facebook.TestEventCode,
		metrics,
	)

	clientIP, err := middleware.NewClientIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TRUSTED_PROXIES")
	}

	router := routes.NewRouter(
		handlers.NewAvailabilityHandler(availabilityService),
		handlers.NewBookingHandler(bookingService),
		handlers.NewCompanyHandler(companyService),
		handlers.NewConversionHandler(conversionService),
		routes.Options{
			CacheMiddleware: middleware.NewCacheMiddleware(cacheProvider, map[string]int{"/api/company": companyCacheTTLSeconds}),
			RateLimiter:     middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
			ClientIP:        clientIP,
			AllowedOrigins:  cfg.CORS.AllowedOrigins,
			Metrics:         metrics,
			Health: map[string]interface{}{
				"scheduling":  cfg.SimplyBook.HasCredentials(),
				"conversions": sender != nil,
			},
		},
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
