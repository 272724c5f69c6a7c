package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"timension-backend/internal/config"
	"timension-backend/internal/database"
	"timension-backend/internal/handlers"
	"timension-backend/internal/repository"
	"timension-backend/internal/router"
	"timension-backend/internal/services"
	"timension-backend/internal/websocket"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Info().Str("env", cfg.Env).Msg("starting Timension backend")

	// Postgres is optional: without it the suggestion wall serves demo data.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("postgres unavailable, suggestion wall degrades to demo data")
		} else {
			defer pool.Close()
			if err := database.RunMigrations(pool, "migrations"); err != nil {
				log.Fatal().Err(err).Msg("database migration failed")
			}
			log.Info().Msg("postgres connected")
		}
	} else {
		log.Info().Msg("no DATABASE_URL, suggestion wall serves demo data")
	}

	// Redis is optional: without it headline caching and the status stream
	// are disabled.
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		var err error
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, caching and live updates disabled")
		} else {
			defer redisClients.Close()
			log.Info().Msg("redis connected")
		}
	}

	var cacheClient, pubsubClient *redis.Client
	if redisClients != nil {
		cacheClient = redisClients.Cache
		pubsubClient = redisClients.PubSub
	}

	// ──── Services ────
	creds := services.NewCredentialStore(cfg.GeminiAPIKey)
	geminiService := services.NewGeminiService(
		creds,
		cacheClient,
		log.Logger,
		cfg.GeminiTextModel,
		cfg.GeminiImageModel,
		cfg.GeminiConcurrentReqs,
	)
	defer geminiService.Close()

	var suggestionRepo *repository.SuggestionRepo
	feedbackService := services.NewFeedbackService(nil, log.Logger)
	if pool != nil {
		suggestionRepo = repository.NewSuggestionRepo(pool)
		feedbackService = services.NewFeedbackService(suggestionRepo, log.Logger)
	}

	// ──── Handlers ────
	headlineHandler := handlers.NewHeadlineHandler(geminiService)
	mentorHandler := handlers.NewMentorHandler(geminiService)
	exploreHandler := handlers.NewExploreHandler(geminiService)
	simulationHandler := handlers.NewSimulationHandler(geminiService)
	suggestionHandler := handlers.NewSuggestionHandler(feedbackService)
	credentialHandler := handlers.NewCredentialHandler(geminiService)

	wsHub := websocket.NewHub(pubsubClient, services.UpdatesChannel, log.Logger)

	r := router.New(
		headlineHandler,
		mentorHandler,
		exploreHandler,
		simulationHandler,
		suggestionHandler,
		credentialHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // image generation is slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info().Str("addr", server.Addr).Msg("Timension backend ready")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
