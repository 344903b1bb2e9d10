package allockit

import (
	"context"
	"sync"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logging"
)

// Tracking wraps an Allocator and keeps book of the buffers that are still live.
// It is meant to verify that every buffer is released exactly once.
type Tracking[T any] struct {
	// Allocator is the wrapped allocator.
	// When nil, Global is used.
	Allocator Allocator[T]
	// Logger receives warnings about double releases and leaks.
	// A nil Logger disables logging.
	Logger *logging.Logger

	m           sync.Mutex
	live        map[uintptr]int
	allocations int
	releases    int
}

func (t *Tracking[T]) alloc() Allocator[T] {
	if t.Allocator == nil {
		return Global[T]{}
	}
	return t.Allocator
}

func (t *Tracking[T]) Allocate(capacity int) ([]T, error) {
	buf, err := t.alloc().Allocate(capacity)
	if err != nil {
		return nil, err
	}
	t.m.Lock()
	defer t.m.Unlock()
	t.track(buf)
	return buf, nil
}

func (t *Tracking[T]) Grow(buf []T, capacity int) ([]T, error) {
	return t.replace(buf, func() ([]T, error) {
		return t.alloc().Grow(buf, capacity)
	})
}

func (t *Tracking[T]) Shrink(buf []T, capacity int) ([]T, error) {
	return t.replace(buf, func() ([]T, error) {
		return t.alloc().Shrink(buf, capacity)
	})
}

func (t *Tracking[T]) replace(buf []T, fn func() ([]T, error)) ([]T, error) {
	t.m.Lock()
	defer t.m.Unlock()
	if err := t.forget(buf); err != nil {
		return nil, err
	}
	out, err := fn()
	if err != nil {
		t.remember(buf)
		return nil, err
	}
	t.remember(out)
	return out, nil
}

func (t *Tracking[T]) DeallocateNoDrop(buf []T) error {
	t.m.Lock()
	defer t.m.Unlock()
	if err := t.forget(buf); err != nil {
		return err
	}
	t.releases++
	return t.alloc().DeallocateNoDrop(buf)
}

func (t *Tracking[T]) track(buf []T) {
	t.allocations++
	t.remember(buf)
}

func (t *Tracking[T]) remember(buf []T) {
	id := bufferID(buf)
	if id == 0 {
		return
	}
	if t.live == nil {
		t.live = make(map[uintptr]int)
	}
	t.live[id] = cap(buf)
}

func (t *Tracking[T]) forget(buf []T) error {
	id := bufferID(buf)
	if id == 0 {
		return nil
	}
	if _, ok := t.live[id]; !ok {
		err := ErrDoubleRelease.F("buffer with capacity %d", cap(buf))
		t.warn("buffer release rejected", logging.ErrField(err))
		return err
	}
	delete(t.live, id)
	return nil
}

// Live returns the number of buffers that are allocated and not yet released.
// Zero capacity buffers have no storage, thus they are never live.
func (t *Tracking[T]) Live() int {
	t.m.Lock()
	defer t.m.Unlock()
	return len(t.live)
}

// Allocations counts the successful Allocate calls.
// Grow and Shrink move an existing buffer, so they are not counted.
func (t *Tracking[T]) Allocations() int {
	t.m.Lock()
	defer t.m.Unlock()
	return t.allocations
}

func (t *Tracking[T]) Releases() int {
	t.m.Lock()
	defer t.m.Unlock()
	return t.releases
}

// Verify returns ErrLeak when there are buffers still live.
func (t *Tracking[T]) Verify() error {
	t.m.Lock()
	defer t.m.Unlock()
	if len(t.live) == 0 {
		return nil
	}
	var errs []error
	for _, capacity := range t.live {
		errs = append(errs, ErrLeak.F("live buffer with capacity %d", capacity))
	}
	err := errorkit.Merge(errs...)
	t.warn("leaked buffers", logging.Field("count", len(t.live)), logging.ErrField(err))
	return err
}

func (t *Tracking[T]) warn(msg string, ds ...logging.Detail) {
	if t.Logger == nil {
		return
	}
	t.Logger.Warn(context.Background(), msg, ds...)
}
