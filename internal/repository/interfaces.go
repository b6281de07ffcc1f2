package repository

import (
	"context"
	"time"

	"github.com/dcollins/storyshare/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// StoryFilter narrows a listing. Nil fields are unconstrained. Callers are
// expected to set at least one of Visibility or OwnerID; the authorization
// layer decides which.
type StoryFilter struct {
	Visibility *domain.Visibility
	OwnerID    *uuid.UUID
}

type StoryRepository interface {
	Create(ctx context.Context, story *domain.Story) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error)
	// List returns stories matching the filter, newest first.
	List(ctx context.Context, filter StoryFilter) ([]domain.Story, error)
	Update(ctx context.Context, story *domain.Story) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
	Story   StoryRepository
}
