package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var missing cachedUser
	found, err := GetJSON(ctx, "user:1", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "user:1", cachedUser{ID: 1, Username: "alice"}, time.Minute))

	var got cachedUser
	found, err = GetJSON(ctx, "user:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", got.Username)
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 7, Username: "bob"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "bob", first.Username)

	// Second read is served from the cache
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "bob", second.Username)
}

func TestAside_FetchErrorPropagates(t *testing.T) {
	setupMiniredis(t)

	sentinel := errors.New("db down")
	var dest cachedUser
	err := Aside(context.Background(), "user:9", &dest, time.Minute, func() error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestAside_NilClientFallsThrough(t *testing.T) {
	SetClient(nil)

	calls := 0
	var dest cachedUser
	err := Aside(context.Background(), "user:1", &dest, time.Minute, func() error {
		calls++
		dest = cachedUser{ID: 1, Username: "alice"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "alice", dest.Username)
}

func TestInvalidateUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(3), cachedUser{ID: 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, ProfileKey(3), cachedUser{ID: 3}, time.Minute))

	InvalidateUser(ctx, 3)

	assert.False(t, mr.Exists(UserKey(3)))
	assert.False(t, mr.Exists(ProfileKey(3)))
}
