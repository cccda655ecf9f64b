// Package lazy provides a process-wide resource that is built on first use.
package lazy

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrReset is returned to callers whose attempt finished after Reset.
var ErrReset = errors.New("lazy: value reset during initialization")

// InitFunc builds the resource.
type InitFunc[T any] func(ctx context.Context) (T, error)

// Value caches the result of a successful InitFunc call. Concurrent callers
// share one in-flight attempt; a failed attempt is not cached so the next
// caller retries.
type Value[T any] struct {
	init    InitFunc[T]
	release func(T)
	group   singleflight.Group

	mu    sync.RWMutex
	value T
	ready bool
	gen   uint64
}

// New returns Value that builds its resource with init.
func New[T any](init InitFunc[T]) *Value[T] {
	return &Value[T]{init: init}
}

// NewWithRelease is New plus a release func for resources built by an
// attempt that Reset overtook. Such resources are never cached.
func NewWithRelease[T any](init InitFunc[T], release func(T)) *Value[T] {
	return &Value[T]{init: init, release: release}
}

// Get returns the cached resource or builds it. The attempt itself is not
// bound to ctx cancellation, so a caller giving up does not fail the others
// waiting on the same attempt.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	v.mu.RLock()
	value, ready, gen := v.value, v.ready, v.gen
	v.mu.RUnlock()
	if ready {
		return value, nil
	}

	ch := v.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		if value, ok := v.Peek(); ok {
			return value, nil
		}
		value, err := v.init(context.WithoutCancel(ctx))
		if err != nil {
			return value, err
		}

		v.mu.Lock()
		if v.gen != gen {
			v.mu.Unlock()
			if v.release != nil {
				v.release(value)
			}
			var zero T
			return zero, ErrReset
		}
		v.value = value
		v.ready = true
		v.mu.Unlock()
		return value, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Peek returns the cached resource without building it.
func (v *Value[T]) Peek() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value, v.ready
}

// Reset drops the cached resource and returns it so the caller can release
// it. An attempt still in flight will not be cached.
func (v *Value[T]) Reset() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	value, ok := v.value, v.ready
	var zero T
	v.value = zero
	v.ready = false
	return value, ok
}
