package service

import (
	"context"
	"strings"
	"time"

	"github.com/dcollins/storyshare/internal/domain"
	"github.com/dcollins/storyshare/internal/repository"
	"github.com/google/uuid"
)

// StoryService gates every story operation on the resolved viewer before
// touching the repository. It is the only place ownership and visibility
// are decided; handlers never reimplement these checks, and the repository
// trusts this layer.
type StoryService struct {
	storyRepo repository.StoryRepository
}

func NewStoryService(storyRepo repository.StoryRepository) *StoryService {
	return &StoryService{storyRepo: storyRepo}
}

type StoryInput struct {
	Title      string
	Body       string
	Visibility domain.Visibility
}

func (in StoryInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.ErrEmptyTitle
	}
	if strings.TrimSpace(in.Body) == "" {
		return domain.ErrEmptyBody
	}
	if !in.Visibility.Valid() {
		return domain.ErrBadVisibility
	}
	return nil
}

// Create stores a new story owned by the viewer. The owner is always the
// authenticated identity; there is no way for a caller to supply one.
func (s *StoryService) Create(ctx context.Context, viewer domain.Viewer, input StoryInput) (*domain.Story, error) {
	if !viewer.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	story := &domain.Story{
		ID:         uuid.New(),
		OwnerID:    viewer.UserID,
		Title:      input.Title,
		Body:       input.Body,
		Visibility: input.Visibility,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Get returns the story if it is public or the viewer owns it. A private
// story read by anyone else reports not-found, exactly like a missing id,
// so its existence never leaks through a status difference.
func (s *StoryService) Get(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*domain.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if story.Visibility != domain.VisibilityPublic && !viewer.Owns(story) {
		return nil, domain.ErrStoryNotFound
	}
	return story, nil
}

// ListPublic lists public stories, newest first. Same result for every
// viewer, anonymous included.
func (s *StoryService) ListPublic(ctx context.Context) ([]domain.Story, error) {
	public := domain.VisibilityPublic
	return s.storyRepo.List(ctx, repository.StoryFilter{Visibility: &public})
}

// ListMine lists all of the viewer's own stories regardless of visibility.
func (s *StoryService) ListMine(ctx context.Context, viewer domain.Viewer) ([]domain.Story, error) {
	if !viewer.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	ownerID := viewer.UserID
	return s.storyRepo.List(ctx, repository.StoryFilter{OwnerID: &ownerID})
}

// Update replaces the story's mutable fields in full. Owner only.
func (s *StoryService) Update(ctx context.Context, viewer domain.Viewer, id uuid.UUID, input StoryInput) (*domain.Story, error) {
	if !viewer.Authenticated {
		return nil, domain.ErrUnauthenticated
	}

	story, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.Owns(story) {
		return nil, domain.ErrNotStoryOwner
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	story.Title = input.Title
	story.Body = input.Body
	story.Visibility = input.Visibility
	story.UpdatedAt = time.Now()

	if err := s.storyRepo.Update(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Delete removes the story. Owner only.
func (s *StoryService) Delete(ctx context.Context, viewer domain.Viewer, id uuid.UUID) error {
	if !viewer.Authenticated {
		return domain.ErrUnauthenticated
	}

	story, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !viewer.Owns(story) {
		return domain.ErrNotStoryOwner
	}

	return s.storyRepo.Delete(ctx, story.ID)
}
