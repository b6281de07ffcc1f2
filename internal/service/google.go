package service

import (
	"context"
	"errors"
	"time"

	"github.com/dcollins/storyshare/internal/config"
	"github.com/dcollins/storyshare/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// ErrGoogleDisabled is returned when Google sign-in routes are hit without
// the provider being configured.
var ErrGoogleDisabled = errors.New("google sign-in is not configured")

func newGoogleConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "profile", "email"},
	}
}

// GoogleEnabled reports whether the Google provider is configured.
func (s *AuthService) GoogleEnabled() bool {
	return s.google != nil
}

// GoogleAuthURL builds the authorization redirect URL for the given
// anti-forgery state.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", ErrGoogleDisabled
	}
	return s.google.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// LoginWithGoogle exchanges the authorization code, validates the returned
// ID token, and gets or creates the matching user. The subject claim is the
// stable external identity; email and name are profile data.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*AuthResult, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}

	tok, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, domain.ErrInvalidCredentials
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, s.google.ClientID)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	subject, _ := payload.Claims["sub"].(string)
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if subject == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if name == "" {
		name = email
	}

	user, err := s.getOrCreateGoogleUser(ctx, subject, normalizeEmail(email), name)
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) getOrCreateGoogleUser(ctx context.Context, subject, email, name string) (*domain.User, error) {
	user, err := s.userRepo.GetByGoogleID(ctx, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Link to an existing local account with the same email.
	user, err = s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		user.GoogleID = &subject
		user.UpdatedAt = time.Now()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &domain.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: name,
		GoogleID:    &subject,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
