package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/caredispatch/backend/internal/adapters/database"
	"github.com/caredispatch/backend/internal/adapters/events"
	"github.com/caredispatch/backend/internal/api/handlers"
	"github.com/caredispatch/backend/internal/api/routes"
	"github.com/caredispatch/backend/internal/application/services"
	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/internal/infrastructure/clients/gemini"
	"github.com/caredispatch/backend/internal/infrastructure/clients/postgres"
	"github.com/caredispatch/backend/internal/infrastructure/clients/redis"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
	"github.com/caredispatch/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional; the service runs without an exporter.
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis backs the dashboard event bus; the API degrades gracefully
	// without it.
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, queue events disabled")
	} else {
		defer redisClient.Close()
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
		log.Info().Msg("Redis event bus initialized")
	}

	// The advice client is optional: without an API key every request
	// uses the deterministic baseline ranking.
	var advice providers.AdviceProvider
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.NewClient(&cfg.Gemini)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Gemini client, using baseline ranking only")
		} else {
			advice = client
			log.Info().Str("model", cfg.Gemini.Model).Msg("Gemini advice client initialized")
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, using baseline ranking only")
	}

	facilityRepo := database.NewFacilityAdapter(pgClient)
	queueRepo := database.NewQueueAdapter(pgClient)
	requestRepo := database.NewAdmissionRequestAdapter(pgClient)
	profileRepo := database.NewMedicalProfileAdapter(pgClient)

	dispatchService := services.NewDispatchService(facilityRepo, profileRepo, advice, cfg.Dispatch)
	admissionService := services.NewAdmissionService(requestRepo, queueRepo, profileRepo, dispatchService, advice, eventBus, cfg.Dispatch)
	queueService := services.NewQueueService(queueRepo, profileRepo, advice, eventBus, cfg.Dispatch)
	facilityService := services.NewFacilityService(facilityRepo)
	profileService := services.NewProfileService(profileRepo)

	var primaryClassifier services.IntentClassifier
	if advice != nil {
		primaryClassifier = services.NewAdviceIntentClassifier(advice)
	}
	intentClassifier := services.NewCompositeIntentClassifier(primaryClassifier, services.KeywordIntentClassifier{})

	router := routes.NewRouter(
		handlers.NewDispatchHandler(dispatchService, metrics),
		handlers.NewAdmissionHandler(admissionService, metrics),
		handlers.NewQueueHandler(queueService),
		handlers.NewFacilityHandler(facilityService),
		handlers.NewProfileHandler(profileService),
		handlers.NewIntentHandler(intentClassifier),
		handlers.NewStreamHandler(eventBus),
		handlers.NewHealthHandler(pgClient),
		metrics,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
