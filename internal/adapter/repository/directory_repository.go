package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
)

// DirectoryRepository reads platform users from the users table
type DirectoryRepository struct {
	db *gorm.DB
}

var _ repositories.DirectoryRepository = (*DirectoryRepository)(nil)

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// GetUser finds a user by reference
func (r *DirectoryRepository) GetUser(ctx context.Context, ref entities.UserRef) (*entities.DirectoryUser, error) {
	var user entities.DirectoryUser
	if err := r.db.WithContext(ctx).Where("id = ?", ref).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Upsert creates or replaces a user. Used by the seed tool; the API never writes users.
func (r *DirectoryRepository) Upsert(ctx context.Context, user *entities.DirectoryUser) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
