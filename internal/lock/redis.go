package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLocker holds locks as SET NX PX keys so every replica of the service
// observes the same owner.
type RedisLocker struct {
	client *redis.Client
	prefix string
	opts   Options
}

func NewRedisLocker(client *redis.Client, prefix string, opts Options) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: prefix,
		opts:   opts.withDefaults(),
	}
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
}

// Acquire blocks until key is free, Wait elapses or ctx is done.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Lock, error) {
	fullKey := l.prefix + key
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(l.opts.Wait)
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.opts.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", fullKey, err)
		}
		if ok {
			return &redisLock{client: l.client, key: fullKey, token: token}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, fullKey)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.opts.RetryStep):
		}
	}
}

func (l *redisLock) Release(ctx context.Context) error {
	n, err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	if n == 0 {
		return ErrNotOwned
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
