package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"axiom-backend/internal/analysis"
	"axiom-backend/internal/config"
	"axiom-backend/internal/database"
	"axiom-backend/internal/handlers"
	custommiddleware "axiom-backend/internal/middleware"
	"axiom-backend/internal/notify"
	"axiom-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if cfg.MongoURI == "" {
		log.Fatal().Msg("MONGODB_URI is required")
	}
	if cfg.AnalysisAPIKey == "" {
		log.Fatal().Msg("ANALYSIS_API_KEY is required")
	}

	if err := database.Connect(cfg.MongoURI, cfg.DBName); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	feedbackRepo := repository.NewFeedbackRepo()
	catRepo := repository.NewCatRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to create feedback indexes")
	}
	if err := catRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to create cat indexes")
	}

	classifier := analysis.NewClient(cfg.AnalysisBaseURL, cfg.AnalysisAPIKey, cfg.AnalysisModel, cfg.AnalysisMaxTokens)
	notifier := notify.NewMockNotifier()

	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, classifier, notifier)
	catHandler := handlers.NewCatHandler(catRepo)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.RequestLogger(log.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"axiom-backend"}`))
	})

	r.Route("/feedback", func(r chi.Router) {
		r.Post("/", feedbackHandler.Create)
		r.Get("/", feedbackHandler.List)
		r.Delete("/", feedbackHandler.DeleteMany)
		r.Get("/{id}", feedbackHandler.GetByID)
		r.Patch("/{id}", feedbackHandler.UpdateNextAction)
		r.Delete("/{id}", feedbackHandler.Delete)
	})

	r.Route("/cats", func(r chi.Router) {
		r.Get("/", catHandler.List)
		r.Post("/", catHandler.Create)
		r.Get("/{id}", catHandler.GetByID)
	})

	log.Info().Str("port", cfg.Port).Msg("axiom backend starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
