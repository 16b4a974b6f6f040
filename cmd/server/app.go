package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	goredis "github.com/redis/go-redis/v9"

	"github.com/everpath/mastery-api/internal/adapter"
	"github.com/everpath/mastery-api/internal/adapter/programming"
	"github.com/everpath/mastery-api/internal/adapter/reading"
	"github.com/everpath/mastery-api/internal/config"
	"github.com/everpath/mastery-api/internal/domain/sm2"
	"github.com/everpath/mastery-api/internal/platform/gemini"
	"github.com/everpath/mastery-api/internal/platform/postgres"
	"github.com/everpath/mastery-api/internal/platform/redis"
	"github.com/everpath/mastery-api/internal/scoring"
	"github.com/everpath/mastery-api/internal/service/auth"
	"github.com/everpath/mastery-api/internal/service/grading"
	"github.com/everpath/mastery-api/internal/service/mastery"
	"github.com/everpath/mastery-api/internal/service/transform"
	"github.com/everpath/mastery-api/internal/store"
)

// application holds the wired dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	learnerStore store.LearnerStore
	registry     *adapter.Registry
	engine       *mastery.Engine
	jwtService   auth.JWTService
	authService  *auth.Service
	grader       *grading.Grader
	transformer  *transform.Transformer
}

// newApplication builds every service from configuration. Optional backends
// degrade gracefully: no Redis address disables caching, no Gemini API key
// disables external scoring.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	learnerStore := postgres.NewLearnerStore(db, log)
	masteryStore := postgres.NewMasteryStore(db, log)

	var cache *redis.MasteryCache
	if cfg.Cache.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, continuing without cache", "error", err)
		} else {
			cache = redis.NewMasteryCache(client, log, cfg.Cache.TTL)
			log.Info("mastery cache enabled", "addr", cfg.Cache.RedisAddr)
		}
	}

	var scorer scoring.Scorer
	if cfg.Scoring.GeminiAPIKey != "" {
		geminiScorer, err := gemini.NewScorer(ctx, log, gemini.Config{
			APIKey:    cfg.Scoring.GeminiAPIKey,
			ModelName: cfg.Scoring.ModelName,
		})
		if err != nil {
			return nil, fmt.Errorf("creating scorer: %w", err)
		}
		scorer = geminiScorer
		log.Info("external scoring enabled", "model", cfg.Scoring.ModelName)
	} else {
		log.Warn("no scoring API key configured, free-form grading uses the local heuristic")
	}

	registry := adapter.NewRegistry()
	if err := registry.Register(reading.New()); err != nil {
		return nil, fmt.Errorf("registering reading adapter: %w", err)
	}
	programmingAdapter, err := programming.New()
	if err != nil {
		return nil, fmt.Errorf("loading programming adapter: %w", err)
	}
	if err := registry.Register(programmingAdapter); err != nil {
		return nil, fmt.Errorf("registering programming adapter: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("creating jwt service: %w", err)
	}

	engine := mastery.NewEngine(masteryStore, sm2.NewDefaultService(), cache, log)

	policy := scoring.RetryPolicy{
		MaxAttempts:    cfg.Scoring.MaxAttempts,
		InitialBackoff: cfg.Scoring.InitialBackoff,
		MaxBackoff:     cfg.Scoring.MaxBackoff,
		AttemptTimeout: cfg.Scoring.AttemptTimeout,
	}
	if policy.Validate() != nil {
		policy = scoring.DefaultRetryPolicy()
	}

	return &application{
		config:       cfg,
		logger:       log,
		db:           db,
		learnerStore: learnerStore,
		registry:     registry,
		engine:       engine,
		jwtService:   jwtService,
		authService:  auth.NewService(learnerStore, auth.NewBcryptHasher(cfg.Auth.BcryptCost), jwtService, log),
		grader:       grading.NewGrader(scorer, policy, log),
		transformer:  transform.NewTransformer(registry, engine, log),
	}, nil
}

// Close releases the application's connections.
func (app *application) Close() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("closing database", "error", err)
	}
}
