// Package lock serializes work on a shared key across requests: webhook
// deliveries for one external reference, catalog syncs for one service.
package lock

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotAcquired = errors.New("lock not acquired")
	ErrNotOwned    = errors.New("lock not owned by this token")
)

// Lock is a held lock. Release is safe to call once.
type Lock interface {
	Release(ctx context.Context) error
}

// Options tunes acquisition. Wait bounds how long Acquire blocks for a held
// key; TTL bounds how long a crashed holder can keep it.
type Options struct {
	TTL       time.Duration
	Wait      time.Duration
	RetryStep time.Duration
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 30 * time.Second
	}
	if o.Wait <= 0 {
		o.Wait = 5 * time.Second
	}
	if o.RetryStep <= 0 {
		o.RetryStep = 25 * time.Millisecond
	}
	return o
}
