package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demo-credit/wallet_ledger/internal/config"
	"github.com/demo-credit/wallet_ledger/internal/logging"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClientRejectsBadInput(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "")
	assert.Error(t, err)

	_, err = NewRedisClient(context.Background(), "not-a-url://x")
	assert.Error(t, err)
}

func TestNewPostgresPoolRequiresURL(t *testing.T) {
	_, err := NewPostgresPool(context.Background(), "")
	assert.Error(t, err)
}

func TestOpenWithRedisOnly(t *testing.T) {
	mr := miniredis.RunT(t)

	stores, err := Open(context.Background(), config.Config{RedisURL: "redis://" + mr.Addr()}, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, stores.DB)
	require.NotNil(t, stores.Cache)
	assert.Equal(t, redisIOTimeout, stores.Cache.Options().ReadTimeout)

	require.NoError(t, stores.Close())
	assert.Nil(t, stores.Cache)
}

func TestOpenWithNothingConfigured(t *testing.T) {
	stores, err := Open(context.Background(), config.Config{}, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, stores.DB)
	assert.Nil(t, stores.Cache)
	assert.NoError(t, stores.Close())
}
