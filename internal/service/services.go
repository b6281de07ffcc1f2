package service

import (
	"github.com/dcollins/storyshare/internal/config"
	"github.com/dcollins/storyshare/internal/repository"
)

type Services struct {
	Sessions *SessionManager
	Auth     *AuthService
	Story    *StoryService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	sessions := NewSessionManager(repos.Session, cfg)
	return &Services{
		Sessions: sessions,
		Auth:     NewAuthService(repos.User, sessions, cfg),
		Story:    NewStoryService(repos.Story),
	}
}
