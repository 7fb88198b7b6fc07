package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type locker interface {
	Acquire(ctx context.Context, key string) (Lock, error)
}

func newRedisLocker(t *testing.T, opts Options) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLocker(client, "vtu:lock:", opts), mr
}

func lockers(t *testing.T, opts Options) map[string]locker {
	r, _ := newRedisLocker(t, opts)
	return map[string]locker{
		"redis": r,
		"local": NewLocalLocker(opts),
	}
}

func TestLocker_AcquireRelease(t *testing.T) {
	for name, l := range lockers(t, Options{Wait: 100 * time.Millisecond, RetryStep: 5 * time.Millisecond}) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			held, err := l.Acquire(ctx, "txn:ref-1")
			require.NoError(t, err)

			_, err = l.Acquire(ctx, "txn:ref-1")
			require.ErrorIs(t, err, ErrNotAcquired)

			other, err := l.Acquire(ctx, "txn:ref-2")
			require.NoError(t, err)
			require.NoError(t, other.Release(ctx))

			require.NoError(t, held.Release(ctx))
			assert.ErrorIs(t, held.Release(ctx), ErrNotOwned)

			again, err := l.Acquire(ctx, "txn:ref-1")
			require.NoError(t, err)
			require.NoError(t, again.Release(ctx))
		})
	}
}

func TestLocker_SerializesHolders(t *testing.T) {
	for name, l := range lockers(t, Options{Wait: 5 * time.Second, RetryStep: time.Millisecond}) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var inside, maxInside int32
			var wg sync.WaitGroup

			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					held, err := l.Acquire(ctx, "sync:dstv")
					if !assert.NoError(t, err) {
						return
					}
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					assert.NoError(t, held.Release(ctx))
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), maxInside)
		})
	}
}

func TestLocker_ContextCanceled(t *testing.T) {
	for name, l := range lockers(t, Options{Wait: time.Minute, RetryStep: 5 * time.Millisecond}) {
		t.Run(name, func(t *testing.T) {
			held, err := l.Acquire(context.Background(), "txn:busy")
			require.NoError(t, err)
			defer held.Release(context.Background())

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			_, err = l.Acquire(ctx, "txn:busy")
			require.ErrorIs(t, err, context.DeadlineExceeded)
		})
	}
}

func TestRedisLocker_ExpiredLockIsNotReleasedByFormerHolder(t *testing.T) {
	l, mr := newRedisLocker(t, Options{TTL: time.Second, Wait: 50 * time.Millisecond, RetryStep: 5 * time.Millisecond})
	ctx := context.Background()

	first, err := l.Acquire(ctx, "txn:ttl")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	second, err := l.Acquire(ctx, "txn:ttl")
	require.NoError(t, err)

	assert.ErrorIs(t, first.Release(ctx), ErrNotOwned)
	assert.True(t, mr.Exists("vtu:lock:txn:ttl"))
	require.NoError(t, second.Release(ctx))
	assert.False(t, mr.Exists("vtu:lock:txn:ttl"))
}
