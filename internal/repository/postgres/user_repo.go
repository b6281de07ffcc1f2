package postgres

import (
	"context"

	"github.com/dcollins/storyshare/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return withRetry(ctx, "UserRepository.Create", func() error {
		return r.db.WithContext(ctx).Create(user).Error
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := withRetry(ctx, "UserRepository.GetByID", func() error {
		return r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := withRetry(ctx, "UserRepository.GetByEmail", func() error {
		return r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	var user domain.User
	err := withRetry(ctx, "UserRepository.GetByGoogleID", func() error {
		return r.db.WithContext(ctx).First(&user, "google_id = ?", googleID).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return withRetry(ctx, "UserRepository.Update", func() error {
		return r.db.WithContext(ctx).Save(user).Error
	})
}
