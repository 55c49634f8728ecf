package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

const listCandidatesSQL = `
SELECT c.id, c.name, COALESCE(t.type, '') AS candidate_type, COUNT(v.id) AS votes_count
FROM candidates c
LEFT JOIN candidate_types t ON t.id = c.type_id
LEFT JOIN votes v ON v.candidate_id = c.id
GROUP BY c.id, c.name, t.type
ORDER BY c.id`

const findCandidateSQL = `
SELECT c.id, c.name, c.type_id, COALESCE(t.type, '') AS type_label, c.created_at
FROM candidates c
LEFT JOIN candidate_types t ON t.id = c.type_id
WHERE c.id = ?`

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) List(ctx context.Context) ([]domain.CandidateSummary, error) {
	out := []domain.CandidateSummary{}
	if err := r.db.WithContext(ctx).Raw(listCandidatesSQL).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return out, nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	return findCandidate(r.db.WithContext(ctx), id)
}

// findCandidate loads a candidate with its type label on db, which may be a
// transaction.
func findCandidate(db *gorm.DB, id int64) (*domain.Candidate, error) {
	var row candidateRow
	res := db.Raw(findCandidateSQL, id).Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("find candidate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrCandidateNotFound
	}
	return &domain.Candidate{
		ID:        row.ID,
		Name:      row.Name,
		TypeID:    row.TypeID,
		TypeLabel: row.TypeLabel,
		CreatedAt: row.CreatedAt.UTC(),
	}, nil
}

// Create inserts the candidate, and with NewType its type, in one transaction.
func (r *CandidateRepository) Create(ctx context.Context, nc ports.NewCandidate) (*domain.Candidate, error) {
	var created *domain.Candidate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		typeID := nc.TypeID
		label := ""
		if typeID == nil && nc.NewType != "" {
			t := candidateTypeRecord{Type: nc.NewType}
			if err := tx.Create(&t).Error; err != nil {
				return mapTypeInsertError(err)
			}
			typeID, label = &t.ID, t.Type
		}

		rec := candidateRecord{Name: nc.Name, TypeID: typeID, CreatedAt: time.Now().UTC()}
		if err := tx.Create(&rec).Error; err != nil {
			return mapCandidateInsertError(err)
		}
		created = rec.toDomain(label)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *CandidateRepository) Rename(ctx context.Context, id int64, name string) (*domain.Candidate, error) {
	var rec candidateRecord
	res := r.db.WithContext(ctx).
		Model(&rec).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return nil, fmt.Errorf("rename candidate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrCandidateNotFound
	}
	return rec.toDomain(""), nil
}

// Delete removes the candidate; its votes go with it through ON DELETE CASCADE.
func (r *CandidateRepository) Delete(ctx context.Context, id int64) (*domain.Candidate, error) {
	var rec candidateRecord
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&rec)
	if res.Error != nil {
		return nil, fmt.Errorf("delete candidate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrCandidateNotFound
	}
	return rec.toDomain(""), nil
}
