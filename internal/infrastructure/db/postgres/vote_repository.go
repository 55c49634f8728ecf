package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

const (
	lockUserSQL = `SELECT id FROM users WHERE id = ? FOR UPDATE`

	voteDetailSQL = `
SELECT v.id AS vote_id, v.user_id, u.name AS user_name, c.name AS candidate_name,
       COALESCE(t.type, '') AS candidate_type, v.created_at
FROM votes v
JOIN users u ON u.id = v.user_id
JOIN candidates c ON c.id = v.candidate_id
LEFT JOIN candidate_types t ON t.id = c.type_id
WHERE v.id = ?`

	publicVotesSQL = `
SELECT v.candidate_id, c.name AS candidate_name
FROM votes v
JOIN candidates c ON c.id = v.candidate_id
ORDER BY v.id`

	myVotesSQL = `
SELECT v.id, u.name AS user_name, c.name AS candidate_name,
       COALESCE(t.type, '') AS candidate_type,
       (SELECT COUNT(*) FROM votes v2 WHERE v2.candidate_id = v.candidate_id) AS votes_count
FROM votes v
JOIN users u ON u.id = v.user_id
JOIN candidates c ON c.id = v.candidate_id
LEFT JOIN candidate_types t ON t.id = c.type_id
WHERE v.user_id = ?
ORDER BY v.id`

	topCandidatesSQL = `
SELECT c.id, c.name, COUNT(v.id) AS votes_count
FROM candidates c
JOIN votes v ON v.candidate_id = c.id
WHERE c.id IN (SELECT candidate_id FROM votes WHERE user_id = ?)
GROUP BY c.id, c.name
ORDER BY votes_count DESC, c.id ASC
LIMIT ?`
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Cast locks the user's row, runs check on the same transaction, and inserts
// the vote. The row lock serialises one user's casts; the unique constraints
// remain as a backstop.
func (r *VoteRepository) Cast(ctx context.Context, userID, candidateID int64, check ports.EligibilityFunc) (*domain.Vote, error) {
	var vote *domain.Vote
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked int64
		res := tx.Raw(lockUserSQL, userID).Scan(&locked)
		if res.Error != nil {
			return fmt.Errorf("lock user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}

		candidate, err := check(ctx, eligibilityReader{db: tx})
		if err != nil {
			return err
		}

		rec := voteRecord{
			UserID:      userID,
			CandidateID: candidate.ID,
			TypeID:      candidate.TypeID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return mapVoteInsertError(err, candidate.TypeLabel)
		}
		vote = rec.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vote, nil
}

func (r *VoteRepository) FindByID(ctx context.Context, id int64) (*domain.Vote, error) {
	var rec voteRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *VoteRepository) FindDetail(ctx context.Context, id int64) (*domain.VoteDetail, error) {
	var detail domain.VoteDetail
	res := r.db.WithContext(ctx).Raw(voteDetailSQL, id).Scan(&detail)
	if res.Error != nil {
		return nil, fmt.Errorf("find vote detail: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrVoteNotFound
	}
	detail.CreatedAt = detail.CreatedAt.UTC()
	return &detail, nil
}

func (r *VoteRepository) Delete(ctx context.Context, id int64) (*domain.Vote, error) {
	var rec voteRecord
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&rec)
	if res.Error != nil {
		return nil, fmt.Errorf("delete vote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrVoteNotFound
	}
	return rec.toDomain(), nil
}

func (r *VoteRepository) ListAll(ctx context.Context) ([]domain.PublicVote, error) {
	var rows []publicVoteRow
	if err := r.db.WithContext(ctx).Raw(publicVotesSQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}

	out := make([]domain.PublicVote, len(rows))
	for i, row := range rows {
		out[i] = domain.PublicVote{
			CandidateID: row.CandidateID,
			Candidate:   domain.PublicVoteItem{ID: row.CandidateID, Name: row.CandidateName},
		}
	}
	return out, nil
}

func (r *VoteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.MyVote, error) {
	out := []domain.MyVote{}
	if err := r.db.WithContext(ctx).Raw(myVotesSQL, userID).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list user votes: %w", err)
	}
	return out, nil
}

func (r *VoteRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&voteRecord{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count user votes: %w", err)
	}
	return n, nil
}

func (r *VoteRepository) TopCandidatesForUser(ctx context.Context, userID int64, limit int) ([]domain.TopCandidate, error) {
	out := []domain.TopCandidate{}
	if err := r.db.WithContext(ctx).Raw(topCandidatesSQL, userID, limit).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("top candidates: %w", err)
	}
	return out, nil
}

// eligibilityReader answers the eligibility checks inside the cast transaction.
type eligibilityReader struct {
	db *gorm.DB
}

func (r eligibilityReader) FindCandidate(ctx context.Context, candidateID int64) (*domain.Candidate, error) {
	return findCandidate(r.db.WithContext(ctx), candidateID)
}

func (r eligibilityReader) HasVoteForCandidate(ctx context.Context, userID, candidateID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&voteRecord{}).
		Where("user_id = ? AND candidate_id = ?", userID, candidateID).
		Count(&n).Error
	return n > 0, err
}

func (r eligibilityReader) HasVoteForType(ctx context.Context, userID, typeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&voteRecord{}).
		Where("user_id = ? AND type_id = ?", userID, typeID).
		Count(&n).Error
	return n > 0, err
}
