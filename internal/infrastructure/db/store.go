// Package db selects and opens the persistent store named by STORE_DRIVER.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/core/ports"
	"github.com/votehub/voting-api/internal/infrastructure/config"
	"github.com/votehub/voting-api/internal/infrastructure/db/mongo"
	"github.com/votehub/voting-api/internal/infrastructure/db/postgres"
)

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Driver         string
	Users          ports.UserRepository
	Candidates     ports.CandidateRepository
	CandidateTypes ports.CandidateTypeRepository
	Votes          ports.VoteRepository
	Activity       ports.ActivityRepository
	Health         Pinger

	close func(ctx context.Context) error
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the configured backend and prepares its schema.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.StoreDriverMongo:
		return openMongo(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	gdb, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.URL,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
	}, log)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, gdb); err != nil {
		_ = postgres.Close(gdb)
		return nil, err
	}

	return &Store{
		Driver:         config.StoreDriverPostgres,
		Users:          postgres.NewUserRepository(gdb),
		Candidates:     postgres.NewCandidateRepository(gdb),
		CandidateTypes: postgres.NewCandidateTypeRepository(gdb),
		Votes:          postgres.NewVoteRepository(gdb),
		Activity:       postgres.NewActivityRepository(gdb),
		Health:         postgres.NewHealth(gdb),
		close:          func(context.Context) error { return postgres.Close(gdb) },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	client, mdb, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, mdb); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Store{
		Driver:         config.StoreDriverMongo,
		Users:          mongo.NewUserRepository(mdb),
		Candidates:     mongo.NewCandidateRepository(mdb, log),
		CandidateTypes: mongo.NewCandidateTypeRepository(mdb),
		Votes:          mongo.NewVoteRepository(mdb),
		Activity:       mongo.NewActivityRepository(mdb),
		Health:         mongo.NewHealth(mdb),
		close:          client.Disconnect,
	}, nil
}
