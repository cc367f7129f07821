package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/repository/postgres"
	"github.com/dom/attendance-platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenRepository_FindAndDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	admin, _ := testutil.NewEntityAdminBuilder().Build(t, testDB.DB)
	token := testutil.CreateRefreshToken(t, testDB.DB, admin, time.Now().Add(time.Hour))

	got, err := repo.GetByToken(ctx, token.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, admin.ID, got.AdminID)

	exists, err := repo.ExistsByToken(ctx, token.Token)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteByToken(ctx, token.Token))

	got, err = repo.GetByToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Idempotent
	assert.NoError(t, repo.DeleteByToken(ctx, token.Token))
	assert.NoError(t, repo.DeleteByToken(ctx, "never-issued"))
}

func TestRefreshTokenRepository_Consume(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	admin, _ := testutil.NewEntityAdminBuilder().Build(t, testDB.DB)
	token := testutil.CreateRefreshToken(t, testDB.DB, admin, time.Now().Add(time.Hour))

	got, err := repo.Consume(ctx, token.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, token.Token, got.Token)
	assert.Equal(t, admin.ID, got.AdminID)
	assert.WithinDuration(t, token.ExpiryDate, got.ExpiryDate, time.Millisecond)

	// Second consumer gets nothing
	got, err = repo.Consume(ctx, token.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := repo.ExistsByToken(ctx, token.Token)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRefreshTokenRepository_DeleteByAdminID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	alice, _ := testutil.NewEntityAdminBuilder().Build(t, testDB.DB)
	bob, _ := testutil.NewEntityAdminBuilder().Build(t, testDB.DB)
	a1 := testutil.CreateRefreshToken(t, testDB.DB, alice, time.Now().Add(time.Hour))
	a2 := testutil.CreateRefreshToken(t, testDB.DB, alice, time.Now().Add(time.Hour))
	b1 := testutil.CreateRefreshToken(t, testDB.DB, bob, time.Now().Add(time.Hour))

	require.NoError(t, repo.DeleteByAdminID(ctx, alice.ID))

	for _, tok := range []*domain.RefreshToken{a1, a2} {
		exists, err := repo.ExistsByToken(ctx, tok.Token)
		require.NoError(t, err)
		assert.False(t, exists)
	}

	exists, err := repo.ExistsByToken(ctx, b1.Token)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRefreshTokenRepository_DeleteByExpiryDateBefore(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	admin, _ := testutil.NewEntityAdminBuilder().Build(t, testDB.DB)
	now := time.Now().UTC().Truncate(time.Second)

	expired := testutil.CreateRefreshToken(t, testDB.DB, admin, now.Add(-time.Minute))
	boundary := testutil.CreateRefreshToken(t, testDB.DB, admin, now)
	valid := testutil.CreateRefreshToken(t, testDB.DB, admin, now.Add(time.Minute))

	removed, err := repo.DeleteByExpiryDateBefore(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "expired removed", token: expired.Token, want: false},
		{name: "expiring now kept", token: boundary.Token, want: true},
		{name: "future kept", token: valid.Token, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := repo.ExistsByToken(ctx, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestSuperAdminRefreshTokenRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSuperAdminRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	admin, _ := testutil.NewSuperAdminBuilder().Build(t, testDB.DB)

	live := &domain.SuperAdminRefreshToken{Token: "live", SuperAdminID: admin.ID, ExpiryDate: time.Now().Add(time.Hour)}
	stale := &domain.SuperAdminRefreshToken{Token: "stale", SuperAdminID: admin.ID, ExpiryDate: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, stale))

	removed, err := repo.DeleteByExpiryDateBefore(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	got, err := repo.GetByToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, admin.ID, got.SuperAdminID)

	once := &domain.SuperAdminRefreshToken{Token: "once", SuperAdminID: admin.ID, ExpiryDate: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, once))
	consumed, err := repo.Consume(ctx, "once")
	require.NoError(t, err)
	require.NotNil(t, consumed)
	assert.Equal(t, admin.ID, consumed.SuperAdminID)
	consumed, err = repo.Consume(ctx, "once")
	require.NoError(t, err)
	assert.Nil(t, consumed)

	require.NoError(t, repo.DeleteBySuperAdminID(ctx, admin.ID))
	exists, err := repo.ExistsByToken(ctx, "live")
	require.NoError(t, err)
	assert.False(t, exists)
}
