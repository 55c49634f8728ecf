package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

type CandidateTypeService struct {
	repo ports.CandidateTypeRepository
	log  zerolog.Logger
}

func NewCandidateTypeService(repo ports.CandidateTypeRepository, log zerolog.Logger) *CandidateTypeService {
	return &CandidateTypeService{repo: repo, log: log}
}

func (s *CandidateTypeService) List(ctx context.Context) ([]domain.CandidateType, error) {
	return s.repo.List(ctx)
}

// Create adds a candidate type. Labels are unique and compared case-sensitively.
func (s *CandidateTypeService) Create(ctx context.Context, label string) (*domain.CandidateType, error) {
	clean := cleanText(label)
	if clean == "" {
		return nil, validationError("type name is required")
	}

	created, err := s.repo.Create(ctx, clean)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("type_id", created.ID).Str("type", created.Type).Msg("candidate type created")
	return created, nil
}
