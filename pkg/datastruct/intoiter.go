package datastruct

import (
	"iter"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/iterkit"
)

// IntoIter is the consuming iterator of a Vector.
// It owns the vector's storage and every element it has not yet yielded.
//
// Each yielded value is handed over to the caller,
// who becomes responsible for dropping it.
// Close drops the elements that were never yielded, and only after that releases the storage.
// Close must be called even when the iterator is abandoned midway;
// Seq and Backward call it when the range loop ends or breaks.
//
// IntoIter is single owner, and it is not safe for concurrent use.
type IntoIter[T any] struct {
	raw    RawVector[T]
	iter   rawIter[T]
	drop   DropFunc[T]
	value  T
	err    error
	closed bool
}

var _ DoubleEndedIter[any] = (*IntoIter[any])(nil)
var _ iterkit.PullIter[any] = (*IntoIter[any])(nil)

// Next moves the next element from the front into Value.
func (it *IntoIter[T]) Next() bool {
	return it.take(it.iter.next)
}

// NextBack moves the next element from the back into Value.
func (it *IntoIter[T]) NextBack() bool {
	return it.take(it.iter.nextBack)
}

func (it *IntoIter[T]) take(next func() (T, bool)) bool {
	var zero T
	it.value = zero
	if it.closed {
		return false
	}
	v, ok := next()
	if !ok {
		return false
	}
	it.value = v
	return true
}

// Value returns the element yielded by the last Next or NextBack call.
func (it *IntoIter[T]) Value() T {
	return it.value
}

// Shift takes the next element from the front.
func (it *IntoIter[T]) Shift() (T, bool) {
	if !it.Next() {
		return it.value, false
	}
	return it.value, true
}

// Pop takes the next element from the back.
func (it *IntoIter[T]) Pop() (T, bool) {
	if !it.NextBack() {
		return it.value, false
	}
	return it.value, true
}

// Len returns the exact number of elements that are still owned by the iterator.
func (it *IntoIter[T]) Len() int {
	if it.closed {
		return 0
	}
	return it.iter.len()
}

// SizeHint reports the remaining length, which is always exact.
func (it *IntoIter[T]) SizeHint() (lower, upper int) {
	if it.closed {
		return 0, 0
	}
	return it.iter.sizeHint()
}

// Err returns the error of the storage release, if Close already happened.
func (it *IntoIter[T]) Err() error {
	return it.err
}

// Close drops every element that was not yielded, then releases the storage without dropping anything.
// Close is safe to call at any point of the iteration, and calling it again is a no-op.
//
// If an element's destructor panics, the storage is still released,
// and the elements after it are left to the garbage collector.
func (it *IntoIter[T]) Close() (rErr error) {
	if it.closed {
		return nil
	}
	it.closed = true
	var zero T
	it.value = zero
	defer func() { it.err = rErr }()
	defer errorkit.Finish(&rErr, it.raw.DeallocateNoDrop)
	for {
		v, ok := it.iter.next()
		if !ok {
			break
		}
		it.drop.Drop(v)
	}
	return nil
}

// Seq returns a single-use sequence that yields the remaining elements from the front.
// The iterator is closed when the range loop finishes or breaks.
func (it *IntoIter[T]) Seq() iterkit.SingleUseSeq[T] {
	return it.seq(it.Next)
}

// Backward returns a single-use sequence that yields the remaining elements from the back.
// The iterator is closed when the range loop finishes or breaks.
func (it *IntoIter[T]) Backward() iterkit.SingleUseSeq[T] {
	return it.seq(it.NextBack)
}

func (it *IntoIter[T]) seq(next func() bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for next() {
			if !yield(it.value) {
				return
			}
		}
	}
}
