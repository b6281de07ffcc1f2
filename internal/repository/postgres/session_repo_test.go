package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dcollins/storyshare/internal/domain"
	"github.com/dcollins/storyshare/internal/repository/postgres"
	"github.com/dcollins/storyshare/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSession(userID uuid.UUID, tokenHash string, expiresAt time.Time) *domain.Session {
	return &domain.Session{
		ID:        uuid.New(),
		TokenHash: tokenHash,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	session := newSession(uuid.New(), "hash-1", time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)

	_, err = repo.GetByTokenHash(ctx, "no-such-hash")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Create(ctx, newSession(userID, "hash-a", time.Now().Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newSession(userID, "hash-b", time.Now().Add(time.Hour))))

	require.NoError(t, repo.DeleteByTokenHash(ctx, "hash-a"))
	_, err := repo.GetByTokenHash(ctx, "hash-a")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting an absent hash is a no-op
	assert.NoError(t, repo.DeleteByTokenHash(ctx, "hash-a"))

	require.NoError(t, repo.DeleteByUserID(ctx, userID))
	_, err = repo.GetByTokenHash(ctx, "hash-b")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, newSession(uuid.New(), "expired-1", now.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newSession(uuid.New(), "expired-2", now.Add(-time.Minute))))
	require.NoError(t, repo.Create(ctx, newSession(uuid.New(), "live-1", now.Add(time.Hour))))

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	// The live session is untouched
	_, err = repo.GetByTokenHash(ctx, "live-1")
	assert.NoError(t, err)

	// A second sweep finds nothing
	removed, err = repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
