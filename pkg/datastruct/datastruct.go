package datastruct

import (
	"iter"

	"go.llib.dev/frameless/pkg/iterkit"
)

type List[T any] interface {
	Append(vs ...T)
	ToSlice() []T
	Iter() iter.Seq[T]
	Sizer
}

type Sequence[T any] interface {
	List[T]
	Lookup(index int) (T, bool)
	Set(index int, val T) bool
	Insert(index int, vs ...T) bool
	Delete(index int) bool
}

type Sizer interface {
	Len() int
}

// DoubleEndedIter is a pull iterator that can be consumed from both of its ends.
type DoubleEndedIter[T any] interface {
	iterkit.PullIter[T]
	// NextBack is like Next, but it takes the element from the back of the remaining range.
	NextBack() bool
	// SizeHint returns the bounds on the remaining length of the iterator.
	SizeHint() (lower, upper int)
}
