package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dcollins/storyshare/internal/config"
	"github.com/dcollins/storyshare/internal/domain"
	"github.com/dcollins/storyshare/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tokenBytes = 32 // 256 bits of entropy

// SessionManager issues and resolves opaque session tokens. Tokens are
// stored keyed by an HMAC-SHA256 digest, so the sessions table never holds
// anything a client could replay. Expiry is fixed at creation; there is no
// sliding renewal.
type SessionManager struct {
	sessionRepo repository.SessionRepository
	secret      []byte
	ttl         time.Duration
}

func NewSessionManager(sessionRepo repository.SessionRepository, cfg *config.Config) *SessionManager {
	return &SessionManager{
		sessionRepo: sessionRepo,
		secret:      []byte(cfg.SessionSecret),
		ttl:         cfg.SessionTTL,
	}
}

// Issue creates a session for the user and returns the raw token to set in
// the cookie, along with its expiry.
func (m *SessionManager) Issue(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.New(),
		TokenHash: m.hash(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.sessionRepo.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	return token, session.ExpiresAt, nil
}

// Resolve maps a token to a viewer identity. Unknown, expired, and
// malformed tokens all resolve to the anonymous viewer; so does a failing
// session store, since an unavailable store must not take down reads.
// Expired sessions found here are deleted on the spot.
func (m *SessionManager) Resolve(ctx context.Context, token string) domain.Viewer {
	if token == "" {
		return domain.Anonymous()
	}

	session, err := m.sessionRepo.GetByTokenHash(ctx, m.hash(token))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("ERROR [SessionManager.Resolve] session lookup failed, treating as anonymous: %v", err)
		}
		return domain.Anonymous()
	}

	if session.Expired(time.Now()) {
		if err := m.sessionRepo.DeleteByTokenHash(ctx, session.TokenHash); err != nil {
			log.Printf("ERROR [SessionManager.Resolve] failed to purge expired session: %v", err)
		}
		return domain.Anonymous()
	}

	return domain.AuthenticatedViewer(session.UserID)
}

// Destroy deletes the session for the token. Destroying a token that was
// never issued, or was already destroyed, is not an error.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.sessionRepo.DeleteByTokenHash(ctx, m.hash(token))
}

// DestroyAllForUser revokes every session the user holds, e.g. after a
// credential rotation.
func (m *SessionManager) DestroyAllForUser(ctx context.Context, userID uuid.UUID) error {
	return m.sessionRepo.DeleteByUserID(ctx, userID)
}

// Sweep removes all expired sessions and returns how many were deleted.
// Safe to run concurrently with Resolve: both decide expiry independently
// from the row they read, and deletion is keyed, never "delete oldest".
func (m *SessionManager) Sweep(ctx context.Context) (int64, error) {
	return m.sessionRepo.DeleteExpired(ctx, time.Now())
}

func (m *SessionManager) hash(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
