package datastruct

import "go.llib.dev/rawvec/pkg/allockit"

// rawIter is a cursor over the initialised head of a buffer.
// It yields elements from both ends, but it owns neither the elements nor the buffer.
//
// Every slot in [start, end) holds a live element;
// slots outside of it were already moved out and are cleared.
// For zero-width types the buffer is never touched, start and end are plain counters.
type rawIter[T any] struct {
	buf        []T
	start, end int
	zeroSized  bool
}

// newRawIter creates a cursor over buf[:length].
// The first length slots of buf must be initialised and not aliased while the cursor is in use.
func newRawIter[T any](buf []T, length int) rawIter[T] {
	if allockit.IsZeroSized[T]() {
		return rawIter[T]{end: length, zeroSized: true}
	}
	return rawIter[T]{buf: buf, end: length}
}

func (i *rawIter[T]) next() (T, bool) {
	var zero T
	if i.start == i.end {
		return zero, false
	}
	if i.zeroSized {
		i.start++
		return zero, true
	}
	v := i.buf[i.start]
	i.buf[i.start] = zero
	i.start++
	return v, true
}

func (i *rawIter[T]) nextBack() (T, bool) {
	var zero T
	if i.start == i.end {
		return zero, false
	}
	i.end--
	if i.zeroSized {
		return zero, true
	}
	v := i.buf[i.end]
	i.buf[i.end] = zero
	return v, true
}

func (i *rawIter[T]) len() int {
	return i.end - i.start
}

func (i *rawIter[T]) sizeHint() (int, int) {
	n := i.len()
	return n, n
}
