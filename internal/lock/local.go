package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// LocalLocker serializes keys within one process. It backs the in-memory
// storage mode, where there is only ever a single replica.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
	opts Options
}

func NewLocalLocker(opts Options) *LocalLocker {
	return &LocalLocker{
		keys: make(map[string]chan struct{}),
		opts: opts.withDefaults(),
	}
}

type localLock struct {
	once sync.Once
	ch   chan struct{}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (Lock, error) {
	l.mu.Lock()
	ch, ok := l.keys[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.keys[key] = ch
	}
	l.mu.Unlock()

	timer := time.NewTimer(l.opts.Wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return &localLock{ch: ch}, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *localLock) Release(context.Context) error {
	released := false
	l.once.Do(func() {
		<-l.ch
		released = true
	})
	if !released {
		return ErrNotOwned
	}
	return nil
}
