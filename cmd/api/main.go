// Command api serves the travel diary HTTP API.
//
// @title        Travel Diary API
// @version      1.0
// @description  User registration, token login and diary entry CRUD.
// @BasePath     /
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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/api"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/api/handler"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/ports"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/service"
	mongodb "github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/infrastructure/db/mongo"
	redisdb "github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/infrastructure/db/redis"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/pkg/config"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be set.
	envFileErr := godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "travel-diary-api",
	})
	if envFileErr != nil {
		log.Debug().Err(envFileErr).Msg("no .env file loaded")
	}

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer disconnectMongo(log, client)

	if err := mongodb.Ping(ctx, client); err != nil {
		log.Error().Err(err).Msg("mongodb unreachable, serving anyway")
	} else {
		log.Info().Str("database", db.Name()).Msg("connected to mongodb")
	}

	checks := []handler.HealthCheck{
		{Name: "mongodb", Check: func(ctx context.Context) error { return mongodb.Ping(ctx, client) }},
	}

	// --- Redis (optional) ---
	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, idempotency keys disabled")
		} else {
			defer func() { _ = rdb.Close() }()
			idem = redisdb.NewIdempotencyStore(rdb)
			checks = append(checks, handler.HealthCheck{
				Name:  "redis",
				Check: func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) },
			})
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		}
	}

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(mongodb.NewUserRepository(db), tokens, log)
	diaryService := service.NewDiaryService(mongodb.NewDiaryRepository(db), idem, log)

	e := api.NewRouter(api.Deps{
		AuthService:   authService,
		DiaryService:  diaryService,
		TokenVerifier: tokens,
		Logger:        log,
		RequireAuth:   cfg.RequireAuth,
		HealthChecks:  checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("require_auth", cfg.RequireAuth).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func disconnectMongo(log zerolog.Logger, client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongodb disconnect")
	}
}
