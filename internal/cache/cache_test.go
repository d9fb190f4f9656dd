package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestClient_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	assert.NoError(t, c.Delete(ctx, "k"))

	got, err = c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_MissingKeyIsNil(t *testing.T) {
	c := newTestClient(t)

	got, err := c.Get(context.Background(), "absent")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_NilClientFailsSafe(t *testing.T) {
	ctx := context.Background()
	var c *Client

	// A nil cache must behave like a permanent miss, never an error.
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestClient_UnreachableRedisFailsSafe(t *testing.T) {
	ctx := context.Background()
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
}
