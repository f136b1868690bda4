package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ackinc/ollert"
)

func TestUserStoreCreateGet(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	err := store.CreateUser(ctx, &ollert.User{
		Username:     "a@example.com",
		PasswordHash: "hash",
		Boards:       "[]",
	})
	require.NoError(t, err)

	user, err := store.GetUser(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "a@example.com", user.Username)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.False(t, user.Verified)

	missing, err := store.GetUser(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserStoreDuplicate(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &ollert.User{Username: "a@example.com"}))
	err := store.CreateUser(ctx, &ollert.User{Username: "a@example.com"})
	assert.ErrorIs(t, err, ollert.ErrDuplicateUsername)
}

func TestUserStoreUpdate(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &ollert.User{
		Username:     "a@example.com",
		PasswordHash: "hash",
		Boards:       "[]",
	}))

	verified := true
	boards := `[{"name":"Errands"}]`
	require.NoError(t, store.UpdateUser(ctx, "a@example.com", ollert.UserUpdate{
		Verified: &verified,
		Boards:   &boards,
	}))

	user, err := store.GetUser(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, user.Verified)
	assert.Equal(t, boards, user.Boards)
	assert.Equal(t, "hash", user.PasswordHash, "untouched fields must survive a partial update")

	// Updating a missing user is a silent no-op.
	require.NoError(t, store.UpdateUser(ctx, "nobody@example.com", ollert.UserUpdate{Verified: &verified}))
}

func TestUserStoreGetReturnsCopy(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &ollert.User{Username: "a@example.com", Boards: "[]"}))

	user, err := store.GetUser(ctx, "a@example.com")
	require.NoError(t, err)
	user.Boards = "mutated"

	again, err := store.GetUser(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "[]", again.Boards)
}

func TestCodeCache(t *testing.T) {
	cache := NewCodeCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	value, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	_, ok, err = cache.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeCacheExpiry(t *testing.T) {
	now := time.Now()
	cache := NewCodeCache()
	cache.Now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	now = now.Add(time.Minute)
	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "an entry at its expiry instant reads as absent")
}

func TestCodeCacheOverwrite(t *testing.T) {
	cache := NewCodeCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "old", time.Minute))
	require.NoError(t, cache.Set(ctx, "k", "new", time.Minute))

	value, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", value)
}
