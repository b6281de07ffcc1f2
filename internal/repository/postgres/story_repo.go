package postgres

import (
	"context"
	"errors"

	"github.com/dcollins/storyshare/internal/domain"
	"github.com/dcollins/storyshare/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type storyRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *storyRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *domain.Story) error {
	return withRetry(ctx, "StoryRepository.Create", func() error {
		return r.db.WithContext(ctx).Create(story).Error
	})
}

func (r *storyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	var story domain.Story
	err := withRetry(ctx, "StoryRepository.GetByID", func() error {
		return r.db.WithContext(ctx).First(&story, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStoryNotFound
		}
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) List(ctx context.Context, filter repository.StoryFilter) ([]domain.Story, error) {
	var stories []domain.Story
	err := withRetry(ctx, "StoryRepository.List", func() error {
		q := r.db.WithContext(ctx).Model(&domain.Story{})
		if filter.Visibility != nil {
			q = q.Where("visibility = ?", *filter.Visibility)
		}
		if filter.OwnerID != nil {
			q = q.Where("owner_id = ?", *filter.OwnerID)
		}
		return q.Order("created_at DESC").Find(&stories).Error
	})
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// Update saves the full story row. Callers replace every mutable field
// before calling; there is no partial patch at this layer.
func (r *storyRepository) Update(ctx context.Context, story *domain.Story) error {
	err := withRetry(ctx, "StoryRepository.Update", func() error {
		res := r.db.WithContext(ctx).Model(&domain.Story{}).
			Where("id = ?", story.ID).
			Updates(map[string]interface{}{
				"title":      story.Title,
				"body":       story.Body,
				"visibility": story.Visibility,
				"updated_at": story.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrStoryNotFound
	}
	return err
}

func (r *storyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := withRetry(ctx, "StoryRepository.Delete", func() error {
		res := r.db.WithContext(ctx).Delete(&domain.Story{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrStoryNotFound
	}
	return err
}
