package persistence

import (
	"context"
	"testing"

	"github.com/mise/backend/internal/domain/identity"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUser(t *testing.T, repo *GormUserRepository, username string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, username+"@example.com", "$2a$12$testhash")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestGormUserRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&identity.User{}))
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	saved := mustUser(t, repo, "alice")

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.True(t, got.IsActive)
}

func TestGormUserRepository_FindByUsername_CaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&identity.User{}))
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	mustUser(t, repo, "alice")

	got, err := repo.FindByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&identity.User{}))
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	mustUser(t, repo, "alice")

	got, err := repo.FindByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestGormUserRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&identity.User{}))
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
