package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/api/metrics"
	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

type CandidateService struct {
	repo  ports.CandidateRepository
	types ports.CandidateTypeRepository
	cache CandidateCache
	log   zerolog.Logger
}

func NewCandidateService(repo ports.CandidateRepository, types ports.CandidateTypeRepository, cache CandidateCache, log zerolog.Logger) *CandidateService {
	if cache == nil {
		cache = nopCache{}
	}
	return &CandidateService{repo: repo, types: types, cache: cache, log: log}
}

// List returns every candidate with its type label and current vote count.
func (s *CandidateService) List(ctx context.Context) ([]domain.CandidateSummary, error) {
	cached, gen, ok, cacheErr := s.cache.Get(ctx)
	if cacheErr != nil {
		s.log.Warn().Err(cacheErr).Msg("candidate cache read failed")
	} else if ok {
		return cached, nil
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	// Without a generation the write could overwrite a newer invalidation.
	if cacheErr == nil {
		if err := s.cache.Set(ctx, gen, list); err != nil {
			s.log.Warn().Err(err).Msg("candidate cache write failed")
		}
	}
	return list, nil
}

func (s *CandidateService) Get(ctx context.Context, id int64) (*domain.Candidate, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a candidate linked to an existing type (TypeID) or to a new type
// created in the same store operation (NewType). TypeID wins when both are set.
func (s *CandidateService) Create(ctx context.Context, in ports.CreateCandidateInput) (*domain.Candidate, error) {
	name := cleanText(in.Name)
	if name == "" {
		return nil, validationError("candidate name is required")
	}

	nc := ports.NewCandidate{Name: name}
	source := "existing"
	switch {
	case in.TypeID != nil:
		if *in.TypeID <= 0 {
			return nil, validationError("typeId must be a positive integer")
		}
		if _, err := s.types.FindByID(ctx, *in.TypeID); err != nil {
			return nil, err
		}
		nc.TypeID = in.TypeID
	case cleanText(in.NewType) != "":
		nc.NewType = cleanText(in.NewType)
		source = "new"
	default:
		return nil, validationError("either an existing type id or a new type description is required")
	}

	created, err := s.repo.Create(ctx, nc)
	if err != nil {
		return nil, err
	}

	metrics.CandidatesCreatedTotal.WithLabelValues(source).Inc()
	s.invalidate(ctx)

	s.log.Info().Int64("candidate_id", created.ID).Str("type_source", source).Msg("candidate created")
	return created, nil
}

func (s *CandidateService) Rename(ctx context.Context, id int64, name string) (*domain.Candidate, error) {
	clean := cleanText(name)
	if clean == "" {
		return nil, validationError("candidate name is required")
	}

	updated, err := s.repo.Rename(ctx, id, clean)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a candidate together with the votes cast for it.
func (s *CandidateService) Delete(ctx context.Context, id int64) (*domain.Candidate, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info().Int64("candidate_id", id).Msg("candidate deleted")
	return deleted, nil
}

func (s *CandidateService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate candidate cache")
	}
}
