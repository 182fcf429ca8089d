package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupRedis expects a Redis server on localhost:6379 and skips otherwise.
func setupRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	client := setupRedis(t)
	locker := NewRedisLocker(client, 5*time.Second, 100*time.Millisecond, zap.NewNop())
	key := "test:" + uuid.NewString()

	unlock, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), key)
	assert.True(t, errors.Is(err, ErrNotAcquired))

	unlock()

	unlock, err = locker.Lock(context.Background(), key)
	require.NoError(t, err)
	unlock()
}

func TestRedisLocker_ReleaseKeepsForeignLease(t *testing.T) {
	client := setupRedis(t)
	locker := NewRedisLocker(client, 5*time.Second, time.Second, zap.NewNop())
	key := "test:" + uuid.NewString()
	redisKey := "snackapp:lock:" + key

	unlock, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)

	// the lease was lost and another holder now owns the key
	require.NoError(t, client.Set(context.Background(), redisKey, "other-holder", 5*time.Second).Err())

	unlock()

	value, err := client.Get(context.Background(), redisKey).Result()
	require.NoError(t, err)
	assert.Equal(t, "other-holder", value)
	client.Del(context.Background(), redisKey)
}

func TestRedisLocker_RenewsLeaseWhileHeld(t *testing.T) {
	client := setupRedis(t)
	locker := NewRedisLocker(client, 150*time.Millisecond, 50*time.Millisecond, zap.NewNop())
	key := "test:" + uuid.NewString()

	unlock, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)

	// hold for several ttl periods
	time.Sleep(600 * time.Millisecond)

	_, err = locker.Lock(context.Background(), key)
	assert.True(t, errors.Is(err, ErrNotAcquired))

	unlock()

	exists, err := client.Exists(context.Background(), "snackapp:lock:"+key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func TestRedisLocker_LeaseExpiresAfterHolderStops(t *testing.T) {
	client := setupRedis(t)
	locker := NewRedisLocker(client, 100*time.Millisecond, 50*time.Millisecond, zap.NewNop())
	key := "test:" + uuid.NewString()
	redisKey := "snackapp:lock:" + key

	_, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)

	// a foreign token stops the renewals, as a crashed holder would
	require.NoError(t, client.Set(context.Background(), redisKey, "crashed", 100*time.Millisecond).Err())
	time.Sleep(250 * time.Millisecond)

	unlock, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)
	unlock()
}
