package datastruct

import "go.llib.dev/rawvec/pkg/allockit"

const minNonZeroCapacity = 4

// RawVector is the storage of a Vector: a buffer of capacity slots and the allocator it came from.
// RawVector doesn't know which slots are initialised, thus it never drops elements.
//
// Zero-width types never allocate, and their capacity is unbounded.
type RawVector[T any] struct {
	buf   []T
	alloc allockit.Allocator[T]
}

func NewRawVector[T any](alloc allockit.Allocator[T]) RawVector[T] {
	return RawVector[T]{alloc: alloc}
}

func (rv *RawVector[T]) allocator() allockit.Allocator[T] {
	if rv.alloc == nil {
		return allockit.Global[T]{}
	}
	return rv.alloc
}

func (rv *RawVector[T]) Cap() int {
	if allockit.IsZeroSized[T]() {
		return allockit.MaxCapacity[T]()
	}
	return len(rv.buf)
}

// Grow ensures that the storage can hold at least minCapacity elements.
// The capacity grows to at least the double of the current one.
func (rv *RawVector[T]) Grow(minCapacity int) error {
	if minCapacity < 0 {
		return allockit.ErrCapacityOverflow.F("requested capacity: %d", minCapacity)
	}
	if minCapacity <= rv.Cap() {
		return nil
	}
	var (
		maxCap = allockit.MaxCapacity[T]()
		newCap = minNonZeroCapacity
	)
	if current := rv.Cap(); 0 < current {
		if maxCap/2 < current {
			newCap = maxCap
		} else {
			newCap = current * 2
		}
	}
	newCap = max(newCap, minCapacity)
	if maxCap < newCap {
		return allockit.ErrCapacityOverflow.F("requested capacity: %d", minCapacity)
	}
	var (
		buf []T
		err error
	)
	if len(rv.buf) == 0 {
		buf, err = rv.allocator().Allocate(newCap)
	} else {
		buf, err = rv.allocator().Grow(rv.buf, newCap)
	}
	if err != nil {
		return err
	}
	rv.buf = buf
	return nil
}

// Shrink reduces the storage to the given capacity.
// The caller must ensure that no initialised element lives beyond the new capacity.
func (rv *RawVector[T]) Shrink(capacity int) error {
	if allockit.IsZeroSized[T]() || rv.Cap() <= capacity {
		return nil
	}
	if capacity <= 0 {
		return rv.DeallocateNoDrop()
	}
	buf, err := rv.allocator().Shrink(rv.buf, capacity)
	if err != nil {
		return err
	}
	rv.buf = buf
	return nil
}

// DeallocateNoDrop releases the storage without dropping any element in it.
// The elements must have been dropped or moved out beforehand.
// After the call, the RawVector has no storage, and releasing it again is a no-op.
func (rv *RawVector[T]) DeallocateNoDrop() error {
	buf := rv.buf
	rv.buf = nil
	if allockit.IsZeroSized[T]() || len(buf) == 0 {
		return nil
	}
	return rv.allocator().DeallocateNoDrop(buf)
}

func (rv *RawVector[T]) zeroSized() bool {
	return allockit.IsZeroSized[T]()
}
