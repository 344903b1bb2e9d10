package datastruct

// Dropper is implemented by values that own resources which must be discharged
// once the value is no longer needed.
//
// Drop must be called exactly once for every owned value.
// Containers call it for the elements they still own when they are closed,
// and leave it to the caller for the elements they hand over.
type Dropper interface {
	Drop()
}

// DropFunc destroys a value of T.
type DropFunc[T any] func(v T)

// Drop runs the destructor of the value.
// When the DropFunc is nil, Dropper values are dropped with their own Drop method,
// and every other value is left for the garbage collector.
func (fn DropFunc[T]) Drop(v T) {
	if fn != nil {
		fn(v)
		return
	}
	if d, ok := any(v).(Dropper); ok {
		d.Drop()
	}
}
