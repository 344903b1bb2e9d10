// Package allockit provides pluggable storage allocation strategies for generic containers.
//
// An Allocator hands out full-length buffers of a requested capacity.
// Buffers are returned with DeallocateNoDrop, which frees the storage
// but never runs any element destructor;
// element ownership is the container's business, not the allocator's.
package allockit

import (
	"math"
	"unsafe"

	"go.llib.dev/frameless/pkg/errorkit"
)

const (
	ErrCapacityOverflow errorkit.Error = "allockit: capacity overflow"
	ErrInvalidCapacity  errorkit.Error = "allockit: invalid capacity"
	ErrDoubleRelease    errorkit.Error = "allockit: buffer released more than once"
	ErrLeak             errorkit.Error = "allockit: buffers were not released"
)

type Allocator[T any] interface {
	// Allocate returns a buffer where len(buf) == capacity.
	Allocate(capacity int) ([]T, error)
	// Grow returns a buffer with the new capacity that holds the content of buf.
	// The received buf is considered released after a successful Grow.
	Grow(buf []T, capacity int) ([]T, error)
	// Shrink returns a buffer with the new, smaller capacity that holds the head of buf.
	// The received buf is considered released after a successful Shrink.
	Shrink(buf []T, capacity int) ([]T, error)
	// DeallocateNoDrop releases the buffer's storage without running element destructors.
	DeallocateNoDrop(buf []T) error
}

// SizeOf returns the in-memory width of T.
func SizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// IsZeroSized tells if T is a zero-width type, like struct{} or [0]int.
func IsZeroSized[T any]() bool {
	return SizeOf[T]() == 0
}

// MaxCapacity is the largest capacity a buffer of T can have.
func MaxCapacity[T any]() int {
	size := SizeOf[T]()
	if size == 0 {
		return math.MaxInt
	}
	return int(uintptr(math.MaxInt) / size)
}

func checkCapacity[T any](capacity int) error {
	if capacity < 0 {
		return ErrInvalidCapacity.F("negative capacity: %d", capacity)
	}
	if capacity > MaxCapacity[T]() {
		return ErrCapacityOverflow.F("%d elements of %d bytes", capacity, SizeOf[T]())
	}
	return nil
}

// bufferID identifies a buffer by its backing array.
func bufferID[T any](buf []T) uintptr {
	if cap(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}
