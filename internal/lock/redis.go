package lock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lease only while it still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker is a lease lock shared by every instance pointing at the same
// Redis. While held, the lease is renewed every ttl/3 so a slow operation
// keeps it; if the holder dies the lease expires after ttl.
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: "snackapp:lock:",
		ttl:    ttl,
		wait:   wait,
		logger: logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	backoff := 10 * time.Millisecond
	for attempt := 1; ; attempt++ {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("acquiring lock %s: %w", key, err)
		}
		if ok {
			stop := make(chan struct{})
			done := make(chan struct{})
			go l.keepAlive(redisKey, token, stop, done)
			return l.unlockFunc(redisKey, token, stop, done), nil
		}

		// Jitter of +-20% keeps competing instances from retrying in lockstep.
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		select {
		case <-time.After(jitter):
		case <-waitCtx.Done():
			l.logger.Warn("lock wait expired", zap.String("key", key), zap.Int("attempts", attempt))
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}
		if backoff < 200*time.Millisecond {
			backoff *= 2
		}
	}
}

// keepAlive renews the lease until stop is closed or the lease is lost.
func (l *RedisLocker) keepAlive(redisKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := l.ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		renewed, err := renewScript.Run(ctx, l.client, []string{redisKey}, token, l.ttl.Milliseconds()).Int64()
		cancel()

		if err != nil {
			// the lease survives until ttl, so a later tick may still succeed
			l.logger.Warn("failed to renew lock", zap.String("key", redisKey), zap.Error(err))
			continue
		}
		if renewed == 0 {
			l.logger.Error("lock lease lost while held", zap.String("key", redisKey))
			return
		}
	}
}

func (l *RedisLocker) unlockFunc(redisKey, token string, stop chan<- struct{}, done <-chan struct{}) Unlock {
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
				l.logger.Error("failed to release lock", zap.String("key", redisKey), zap.Error(err))
			}
		})
	}
}
