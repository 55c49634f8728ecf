package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/votehub/voting-api/internal/core/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate inserts the user unless auth0_id already exists, then reads the
// stored row. Concurrent first logins converge on one row.
func (r *UserRepository) GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	now := time.Now().UTC()
	rec := userRecord{
		Auth0ID:   identity.Subject,
		Name:      identity.Name,
		Email:     identity.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "auth0_id"}}, DoNothing: true}).
		Create(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return r.FindByAuth0ID(ctx, identity.Subject)
}

func (r *UserRepository) FindByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("auth0_id = ?", auth0ID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) UpdateName(ctx context.Context, auth0ID, name string) (*domain.User, error) {
	var rec userRecord
	res := r.db.WithContext(ctx).
		Model(&rec).
		Clauses(clause.Returning{}).
		Where("auth0_id = ?", auth0ID).
		Updates(map[string]any{"name": name, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return rec.toDomain(), nil
}
