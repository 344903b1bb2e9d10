package allockit

// Global is the default Allocator, backed by the Go runtime.
type Global[T any] struct{}

func (Global[T]) Allocate(capacity int) ([]T, error) {
	if err := checkCapacity[T](capacity); err != nil {
		return nil, err
	}
	return make([]T, capacity), nil
}

func (g Global[T]) Grow(buf []T, capacity int) ([]T, error) {
	if capacity < len(buf) {
		return nil, ErrInvalidCapacity.F("grow from %d to %d", len(buf), capacity)
	}
	out, err := g.Allocate(capacity)
	if err != nil {
		return nil, err
	}
	copy(out, buf)
	clear(buf)
	return out, nil
}

func (g Global[T]) Shrink(buf []T, capacity int) ([]T, error) {
	if capacity < 0 || len(buf) < capacity {
		return nil, ErrInvalidCapacity.F("shrink from %d to %d", len(buf), capacity)
	}
	out, err := g.Allocate(capacity)
	if err != nil {
		return nil, err
	}
	copy(out, buf)
	clear(buf)
	return out, nil
}

// DeallocateNoDrop clears the slots, so the collector doesn't see stale references through the buffer.
func (Global[T]) DeallocateNoDrop(buf []T) error {
	clear(buf[:cap(buf)])
	return nil
}
