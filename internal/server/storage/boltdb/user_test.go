package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizquez/usersvc/internal/models"
	"github.com/rizquez/usersvc/internal/server/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func testUser(email string) *models.User {
	return &models.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
	}
}

func TestStorage_CreateAndGet(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	user := testUser("test@example.com")
	require.NoError(t, s.Create(ctx, user))
	assert.Greater(t, user.ID, int64(0))

	byID, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", byID.Email)
	// The hash must survive the round trip even though models.User
	// excludes it from JSON.
	assert.Equal(t, user.PasswordHash, byID.PasswordHash)

	byEmail, err := s.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestStorage_Create_DuplicateEmail(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testUser("test@example.com")))
	err := s.Create(ctx, testUser("test@example.com"))
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestStorage_Get_NotFound(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_List_OrderedByID(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testUser("a@example.com")))
	require.NoError(t, s.Create(ctx, testUser("b@example.com")))
	require.NoError(t, s.Create(ctx, testUser("c@example.com")))

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, "c@example.com", users[2].Email)
}

func TestStorage_Update(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	user := testUser("test@example.com")
	require.NoError(t, s.Create(ctx, user))

	user.FullName = "Renamed User"
	user.Email = "renamed@example.com"
	require.NoError(t, s.Update(ctx, user))

	// Old email index entry is gone, new one resolves.
	_, err := s.GetByEmail(ctx, "test@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	got, err := s.GetByEmail(ctx, "renamed@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", got.FullName)
}

func TestStorage_Update_EmailConflict(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testUser("first@example.com")))
	second := testUser("second@example.com")
	require.NoError(t, s.Create(ctx, second))

	second.Email = "first@example.com"
	err := s.Update(ctx, second)
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestStorage_Update_NotFound(t *testing.T) {
	s := setupTestStorage(t)

	user := testUser("test@example.com")
	user.ID = 9999
	err := s.Update(context.Background(), user)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_Delete(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	user := testUser("test@example.com")
	require.NoError(t, s.Create(ctx, user))

	require.NoError(t, s.Delete(ctx, user.ID))

	_, err := s.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	_, err = s.GetByEmail(ctx, "test@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	err = s.Delete(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
