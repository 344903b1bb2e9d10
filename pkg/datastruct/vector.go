package datastruct

import (
	"iter"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/port/option"

	"go.llib.dev/rawvec/pkg/allockit"
)

// ErrMoved is raised when a Vector is used after its ownership was moved into an IntoIter.
const ErrMoved errorkit.Error = "datastruct: vector used after its elements were moved out"

// Vector is a growable array with a pluggable allocation strategy.
// It owns its elements: the ones it removes on its own are dropped,
// the ones it hands over belong to the caller.
//
// The zero value is an empty vector that uses the allockit.Global allocator.
// Allocation failures are raised as panics, the same way the runtime reports an out of memory.
//
// Vector is not safe for concurrent use.
type Vector[T any] struct {
	raw   RawVector[T]
	len   int
	drop  DropFunc[T]
	moved bool
}

var _ Sequence[any] = (*Vector[any])(nil)

type VectorOption[T any] interface {
	option.Option[VectorConfig[T]]
}

type VectorConfig[T any] struct {
	// Allocator provides the storage.
	// By default, allockit.Global is used.
	Allocator allockit.Allocator[T]
	// Capacity is the initial capacity to reserve.
	Capacity int
	// DropFunc is the element destructor.
	// By default, elements implementing Dropper are dropped with their Drop method.
	DropFunc DropFunc[T]
}

func (c VectorConfig[T]) Configure(o *VectorConfig[T]) {
	if c.Allocator != nil {
		o.Allocator = c.Allocator
	}
	if c.Capacity != 0 {
		o.Capacity = c.Capacity
	}
	if c.DropFunc != nil {
		o.DropFunc = c.DropFunc
	}
}

func WithAllocator[T any](alloc allockit.Allocator[T]) VectorOption[T] {
	return option.Func[VectorConfig[T]](func(c *VectorConfig[T]) { c.Allocator = alloc })
}

func WithCapacity[T any](capacity int) VectorOption[T] {
	return option.Func[VectorConfig[T]](func(c *VectorConfig[T]) { c.Capacity = capacity })
}

func WithDropFunc[T any](fn DropFunc[T]) VectorOption[T] {
	return option.Func[VectorConfig[T]](func(c *VectorConfig[T]) { c.DropFunc = fn })
}

func NewVector[T any](opts ...VectorOption[T]) *Vector[T] {
	c := option.ToConfig(opts)
	v := &Vector[T]{
		raw:  NewRawVector(c.Allocator),
		drop: c.DropFunc,
	}
	if 0 < c.Capacity {
		v.reserve(c.Capacity)
	}
	return v
}

func (v *Vector[T]) Len() int {
	return v.len
}

func (v *Vector[T]) Cap() int {
	if v.moved {
		return 0
	}
	return v.raw.Cap()
}

// Reserve ensures room for at least n more elements.
func (v *Vector[T]) Reserve(n int) {
	v.mustOwn()
	v.reserve(v.len + n)
}

func (v *Vector[T]) reserve(capacity int) {
	if err := v.raw.Grow(capacity); err != nil {
		panic(err)
	}
}

func (v *Vector[T]) Push(e T) {
	v.mustOwn()
	if v.len == v.raw.Cap() {
		v.reserve(v.len + 1)
	}
	if !v.raw.zeroSized() {
		v.raw.buf[v.len] = e
	}
	v.len++
}

func (v *Vector[T]) Append(vs ...T) {
	if len(vs) == 0 {
		return
	}
	v.mustOwn()
	v.reserve(v.len + len(vs))
	for _, e := range vs {
		v.Push(e)
	}
}

// Pop moves the last element out of the vector.
func (v *Vector[T]) Pop() (T, bool) {
	var zero T
	if v.moved || v.len == 0 {
		return zero, false
	}
	v.len--
	if v.raw.zeroSized() {
		return zero, true
	}
	e := v.raw.buf[v.len]
	v.raw.buf[v.len] = zero
	return e, true
}

func (v *Vector[T]) Lookup(index int) (T, bool) {
	var zero T
	if !v.inRange(index) {
		return zero, false
	}
	if v.raw.zeroSized() {
		return zero, true
	}
	return v.raw.buf[index], true
}

// Set replaces the element at the index, and drops the replaced one.
func (v *Vector[T]) Set(index int, e T) bool {
	if !v.inRange(index) {
		return false
	}
	if v.raw.zeroSized() {
		v.drop.Drop(e)
		return true
	}
	old := v.raw.buf[index]
	v.raw.buf[index] = e
	v.drop.Drop(old)
	return true
}

// Insert places the values at the index, and shifts the following elements towards the back.
// The index can be equal to Len, which makes Insert an Append.
func (v *Vector[T]) Insert(index int, vs ...T) bool {
	if v.moved || index < 0 || v.len < index {
		return false
	}
	if len(vs) == 0 {
		return true
	}
	v.reserve(v.len + len(vs))
	if !v.raw.zeroSized() {
		buf := v.raw.buf
		copy(buf[index+len(vs):], buf[index:v.len])
		copy(buf[index:], vs)
	}
	v.len += len(vs)
	return true
}

// Remove moves the element at the index out of the vector,
// and shifts the following elements towards the front.
func (v *Vector[T]) Remove(index int) (T, bool) {
	var zero T
	if !v.inRange(index) {
		return zero, false
	}
	v.len--
	if v.raw.zeroSized() {
		return zero, true
	}
	buf := v.raw.buf
	e := buf[index]
	copy(buf[index:], buf[index+1:v.len+1])
	buf[v.len] = zero
	return e, true
}

// Delete removes the element at the index and drops it.
func (v *Vector[T]) Delete(index int) bool {
	e, ok := v.Remove(index)
	if ok {
		v.drop.Drop(e)
	}
	return ok
}

// ToSlice returns a shallow copy of the elements.
// The vector keeps the ownership of its elements.
func (v *Vector[T]) ToSlice() []T {
	out := make([]T, v.len)
	if !v.raw.zeroSized() {
		copy(out, v.raw.buf[:v.len])
	}
	return out
}

// Iter iterates over the elements without taking them out of the vector.
func (v *Vector[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.len; i++ {
			e, _ := v.Lookup(i)
			if !yield(e) {
				return
			}
		}
	}
}

// Clear drops every element from front to back, but keeps the storage for reuse.
func (v *Vector[T]) Clear() {
	if v.moved {
		return
	}
	for 0 < v.len {
		e, _ := v.Remove(0)
		v.drop.Drop(e)
	}
}

// Shrink reduces the capacity to fit the current length.
func (v *Vector[T]) Shrink() error {
	v.mustOwn()
	return v.raw.Shrink(v.len)
}

// Close is the teardown of the vector: it drops the elements, then releases the storage.
// A vector that was turned into an IntoIter has nothing to tear down, so Close is a no-op for it.
func (v *Vector[T]) Close() error {
	if v.moved {
		return nil
	}
	defer func() { v.len = 0 }()
	var zero T
	for i := 0; i < v.len; i++ {
		if v.raw.zeroSized() {
			v.drop.Drop(zero)
			continue
		}
		e := v.raw.buf[i]
		v.raw.buf[i] = zero
		v.drop.Drop(e)
	}
	return v.raw.DeallocateNoDrop()
}

// IntoIter moves the elements and the storage of the vector into a consuming iterator.
// The vector gives up everything it owned:
// after the call, it is empty, its Close is a no-op, and mutating it panics with ErrMoved.
//
// The returned IntoIter must be closed.
func (v *Vector[T]) IntoIter() *IntoIter[T] {
	v.mustOwn()
	it := &IntoIter[T]{
		iter: newRawIter(v.raw.buf, v.len),
		raw:  v.raw,
		drop: v.drop,
	}
	v.raw = RawVector[T]{}
	v.len = 0
	v.moved = true
	return it
}

func (v *Vector[T]) inRange(index int) bool {
	return !v.moved && 0 <= index && index < v.len
}

func (v *Vector[T]) mustOwn() {
	if v.moved {
		panic(ErrMoved)
	}
}
