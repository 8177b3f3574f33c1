package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisTokenStore(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	store := NewRedisTokenStore(rdb)

	t.Run("load missing", func(t *testing.T) {
		mock.ExpectGet(SessionKey("sid-1")).RedisNil()

		token, err := store.Load(ctx, "sid-1")

		assert.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("save then load", func(t *testing.T) {
		mock.ExpectSet("session:sid-1", "tok", time.Hour).SetVal("OK")
		mock.ExpectGet("session:sid-1").SetVal("tok")

		assert.NoError(t, store.Save(ctx, "sid-1", "tok", time.Hour))
		token, err := store.Load(ctx, "sid-1")

		assert.NoError(t, err)
		assert.Equal(t, "tok", token)
	})

	t.Run("load error", func(t *testing.T) {
		mock.ExpectGet("session:sid-1").SetErr(errors.New("i/o timeout"))

		_, err := store.Load(ctx, "sid-1")

		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectDel("session:sid-1").SetVal(0)
		assert.NoError(t, store.Delete(ctx, "sid-1"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryTokenStore().(*memoryTokenStore)
	store.now = func() time.Time { return now }

	token, err := store.Load(ctx, "sid-1")
	assert.NoError(t, err)
	assert.Empty(t, token)

	assert.NoError(t, store.Save(ctx, "sid-1", "tok", time.Minute))
	token, _ = store.Load(ctx, "sid-1")
	assert.Equal(t, "tok", token)

	store.now = func() time.Time { return now.Add(time.Minute) }
	token, _ = store.Load(ctx, "sid-1")
	assert.Empty(t, token)
	assert.NotContains(t, store.entries, "sid-1")

	// expired entries nobody reads again are swept on the next save
	assert.NoError(t, store.Save(ctx, "sid-stale", "old", time.Second))
	store.now = func() time.Time { return now.Add(time.Hour) }
	assert.NoError(t, store.Save(ctx, "sid-3", "tok3", time.Minute))
	assert.NotContains(t, store.entries, "sid-stale")
	assert.Contains(t, store.entries, "sid-3")

	assert.NoError(t, store.Save(ctx, "sid-2", "tok2", 0))
	assert.NoError(t, store.Delete(ctx, "sid-2"))
	assert.NoError(t, store.Delete(ctx, "sid-2"))
	token, _ = store.Load(ctx, "sid-2")
	assert.Empty(t, token)
}
