package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dcollins/storyshare/internal/repository/postgres"
	"github.com/dcollins/storyshare/internal/service"
	"github.com/dcollins/storyshare/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_IssueAndResolve(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	sessions := service.NewSessionManager(repos.Session, cfg)
	ctx := context.Background()

	userID := uuid.New()

	token, expiresAt, err := sessions.Issue(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(cfg.SessionTTL), expiresAt, 5*time.Second)

	viewer := sessions.Resolve(ctx, token)
	assert.True(t, viewer.Authenticated)
	assert.Equal(t, userID, viewer.UserID)
}

func TestSessionManager_ResolveUnknownToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := service.NewSessionManager(repos.Session, testutil.TestConfig())
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "never issued", token: "bm90LWEtcmVhbC10b2tlbg"},
		{name: "garbage", token: "!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewer := sessions.Resolve(ctx, tt.token)
			assert.False(t, viewer.Authenticated)
		})
	}
}

func TestSessionManager_ExpiredTokenResolvesAnonymous(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	// A manager whose sessions are born expired
	expiredCfg := testutil.TestConfig()
	expiredCfg.SessionTTL = -time.Minute
	expired := service.NewSessionManager(repos.Session, expiredCfg)

	token, _, err := expired.Issue(ctx, uuid.New())
	require.NoError(t, err)

	viewer := expired.Resolve(ctx, token)
	assert.False(t, viewer.Authenticated, "expired token must resolve to anonymous")

	// Resolve purges expired rows lazily; a second resolve hits nothing
	removed, err := expired.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed, "expired session should already be purged by resolve")
}

func TestSessionManager_DestroyIsIdempotent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := service.NewSessionManager(repos.Session, testutil.TestConfig())
	ctx := context.Background()

	token, _, err := sessions.Issue(ctx, uuid.New())
	require.NoError(t, err)

	require.NoError(t, sessions.Destroy(ctx, token))

	viewer := sessions.Resolve(ctx, token)
	assert.False(t, viewer.Authenticated, "destroyed token must resolve to anonymous")

	// Destroying again, or destroying tokens that never existed, is fine
	assert.NoError(t, sessions.Destroy(ctx, token))
	assert.NoError(t, sessions.Destroy(ctx, "never-issued"))
	assert.NoError(t, sessions.Destroy(ctx, ""))
}

func TestSessionManager_MultipleConcurrentSessions(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := service.NewSessionManager(repos.Session, testutil.TestConfig())
	ctx := context.Background()

	userID := uuid.New()

	first, _, err := sessions.Issue(ctx, userID)
	require.NoError(t, err)
	second, _, err := sessions.Issue(ctx, userID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Destroying one session leaves the other alive
	require.NoError(t, sessions.Destroy(ctx, first))
	assert.False(t, sessions.Resolve(ctx, first).Authenticated)
	assert.True(t, sessions.Resolve(ctx, second).Authenticated)

	// Revoking the user kills the rest
	require.NoError(t, sessions.DestroyAllForUser(ctx, userID))
	assert.False(t, sessions.Resolve(ctx, second).Authenticated)
}

func TestSessionManager_StoreFailureResolvesAnonymous(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := service.NewSessionManager(repos.Session, testutil.TestConfig())
	ctx := context.Background()

	token, _, err := sessions.Issue(ctx, uuid.New())
	require.NoError(t, err)
	require.True(t, sessions.Resolve(ctx, token).Authenticated)

	// Kill the connection pool out from under the manager. A valid token
	// against an unreachable store must degrade to anonymous, not error.
	sqlDB, err := testDB.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	viewer := sessions.Resolve(ctx, token)
	assert.False(t, viewer.Authenticated)
	assert.Equal(t, uuid.Nil, viewer.UserID)
}

func TestSessionManager_Sweep(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	live := service.NewSessionManager(repos.Session, testutil.TestConfig())

	expiredCfg := testutil.TestConfig()
	expiredCfg.SessionTTL = -time.Minute
	expired := service.NewSessionManager(repos.Session, expiredCfg)

	liveToken, _, err := live.Issue(ctx, uuid.New())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err := expired.Issue(ctx, uuid.New())
		require.NoError(t, err)
	}

	removed, err := live.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	// The live session survives the sweep
	assert.True(t, live.Resolve(ctx, liveToken).Authenticated)
}
