package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/votehub/voting-api/internal/core/domain"
)

type CandidateTypeRepository struct {
	db *gorm.DB
}

func NewCandidateTypeRepository(db *gorm.DB) *CandidateTypeRepository {
	return &CandidateTypeRepository{db: db}
}

func (r *CandidateTypeRepository) List(ctx context.Context) ([]domain.CandidateType, error) {
	var recs []candidateTypeRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list candidate types: %w", err)
	}

	out := make([]domain.CandidateType, len(recs))
	for i, rec := range recs {
		out[i] = rec.toDomain()
	}
	return out, nil
}

func (r *CandidateTypeRepository) FindByID(ctx context.Context, id int64) (*domain.CandidateType, error) {
	var rec candidateTypeRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCandidateTypeNotFound
		}
		return nil, fmt.Errorf("find candidate type: %w", err)
	}
	t := rec.toDomain()
	return &t, nil
}

func (r *CandidateTypeRepository) Create(ctx context.Context, label string) (*domain.CandidateType, error) {
	rec := candidateTypeRecord{Type: label}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if mapped := mapTypeInsertError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("create candidate type: %w", err)
	}
	t := rec.toDomain()
	return &t, nil
}
