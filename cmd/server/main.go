// @title                       Voting API
// @version                     1.0
// @description                 Candidates, candidate types, votes and voter profiles.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/api"
	"github.com/votehub/voting-api/internal/api/middleware"
	"github.com/votehub/voting-api/internal/core/service"
	"github.com/votehub/voting-api/internal/infrastructure/config"
	"github.com/votehub/voting-api/internal/infrastructure/db"
	"github.com/votehub/voting-api/internal/infrastructure/db/redis"
	"github.com/votehub/voting-api/internal/infrastructure/http/handlers"
	"github.com/votehub/voting-api/internal/infrastructure/queue"
	"github.com/votehub/voting-api/pkg/logger"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "voting-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("driver", store.Driver).Msg("store ready")

	deps := []handlers.Dependency{{Name: store.Driver, Pinger: store.Health}}

	// Redis is optional: without it casts rely on store constraints alone and
	// the candidate list is read through.
	var (
		locker service.VoteLocker
		cache  service.CandidateCache
	)
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, vote lock and candidate cache disabled")
	} else {
		defer func(c *goredis.Client) { _ = c.Close() }(rdb)
		locker = redis.NewVoteLock(rdb, cfg.Voting.VoteLockTTL, cfg.Voting.VoteLockWait)
		cache = redis.NewCandidateCache(rdb, cfg.Voting.CandidateCacheTTL)
		deps = append(deps, handlers.Dependency{Name: "redis", Pinger: redis.NewHealth(rdb)})
	}

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Voting.ActivityWorkers, store.Activity, log)
	dispatcher.Start(dispatchCtx)

	users := service.NewUserService(store.Users, cfg.Voting.UserCacheSize, cfg.Voting.UserCacheTTL, log)
	votes := service.NewVoteService(store.Votes, users, service.VoteServiceDeps{
		Locker:   locker,
		Cache:    cache,
		Activity: dispatcher,
	}, log)

	verifier, err := middleware.NewVerifier(middleware.AuthConfig{
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
		Algorithm: cfg.Auth.Algorithm,
		PublicKey: cfg.Auth.PublicKey,
		Secret:    cfg.Auth.Secret,
	})
	if err != nil {
		stopDispatch()
		return err
	}

	e := api.NewRouter(api.Deps{
		Candidates:     service.NewCandidateService(store.Candidates, store.CandidateTypes, cache, log),
		CandidateTypes: service.NewCandidateTypeService(store.CandidateTypes, log),
		Votes:          votes,
		Users:          users,
		Profile:        service.NewProfileService(users, votes),
		Verifier:       verifier,
		Dependencies:   deps,
		CORSOrigins:    cfg.CORSOrigins,
		Log:            log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			stopDispatch()
			dispatcher.Wait()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Requests are drained, so no new activity can arrive.
	stopDispatch()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
	return nil
}
