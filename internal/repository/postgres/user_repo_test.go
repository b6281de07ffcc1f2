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

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		wantErr error
	}{
		{
			name: "successful creation",
			user: &domain.User{
				ID:           uuid.New(),
				Email:        "create@example.com",
				DisplayName:  "testuser",
				PasswordHash: "hashedpassword",
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
		},
		{
			name: "duplicate email",
			user: &domain.User{
				ID:           uuid.New(),
				Email:        "create@example.com", // Same as above
				DisplayName:  "otheruser",
				PasswordHash: "hashedpassword2",
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: gorm.ErrDuplicatedKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				// A unique violation is a conflict, not an outage; it must
				// come back as-is instead of being retried into a 503.
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserRepository_StoreFailure(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	sqlDB, err := testDB.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.GetByEmail(ctx, user.Email)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestUserRepository_Lookups(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	googleID := "google-subject-42"
	user := &domain.User{
		ID:          uuid.New(),
		Email:       "lookup@example.com",
		DisplayName: "lookupuser",
		GoogleID:    &googleID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(ctx, user))

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "lookup@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("by google id", func(t *testing.T) {
		got, err := repo.GetByGoogleID(ctx, googleID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		_, err = repo.GetByGoogleID(ctx, "no-such-subject")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestUserRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	googleID := "linked-subject"
	user.GoogleID = &googleID
	user.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByGoogleID(ctx, googleID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}
