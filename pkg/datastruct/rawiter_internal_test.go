package datastruct

import (
	"testing"

	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/random"
)

func TestRawIter(t *testing.T) {
	rnd := random.New(random.CryptoSeed{})

	t.Run("empty view", func(t *testing.T) {
		ri := newRawIter(make([]int, 4), 0)
		assert.Equal(t, ri.start, ri.end)
		_, ok := ri.next()
		assert.False(t, ok)
		_, ok = ri.nextBack()
		assert.False(t, ok)
	})

	t.Run("cursor spans exactly the initialised head", func(t *testing.T) {
		buf := []int{1, 2, 3, 0, 0}
		ri := newRawIter(buf, 3)
		lower, upper := ri.sizeHint()
		assert.Equal(t, 3, lower)
		assert.Equal(t, 3, upper)

		v, ok := ri.nextBack()
		assert.True(t, ok)
		assert.Equal(t, 3, v)
		v, ok = ri.next()
		assert.True(t, ok)
		assert.Equal(t, 1, v)
		v, ok = ri.next()
		assert.True(t, ok)
		assert.Equal(t, 2, v)
		_, ok = ri.next()
		assert.False(t, ok)
		_, ok = ri.nextBack()
		assert.False(t, ok)
		assert.Equal(t, 0, ri.len())
	})

	t.Run("yielded slots are vacated", func(t *testing.T) {
		a, b := rnd.String(), rnd.String()
		buf := []*string{&a, &b}
		ri := newRawIter(buf, 2)
		got, _ := ri.next()
		assert.Equal(t, &a, got)
		assert.True(t, buf[0] == nil)
		got, _ = ri.nextBack()
		assert.Equal(t, &b, got)
		assert.True(t, buf[1] == nil)
	})

	t.Run("zero-width elements are counted, not addressed", func(t *testing.T) {
		n := rnd.IntBetween(1, 100)
		ri := newRawIter[struct{}](nil, n)
		assert.True(t, ri.zeroSized)
		for remaining := n; 0 < remaining; remaining-- {
			lower, _ := ri.sizeHint()
			assert.Equal(t, remaining, lower)
			var ok bool
			if rnd.Bool() {
				_, ok = ri.next()
			} else {
				_, ok = ri.nextBack()
			}
			assert.True(t, ok)
		}
		_, ok := ri.next()
		assert.False(t, ok)
	})
}

func TestRawVector(t *testing.T) {
	t.Run("zero value has no storage", func(t *testing.T) {
		var rv RawVector[int]
		assert.Equal(t, 0, rv.Cap())
		assert.NoError(t, rv.DeallocateNoDrop())
	})

	t.Run("growth starts from a minimum and then doubles", func(t *testing.T) {
		var rv RawVector[int]
		assert.NoError(t, rv.Grow(1))
		assert.Equal(t, minNonZeroCapacity, rv.Cap())
		assert.NoError(t, rv.Grow(minNonZeroCapacity+1))
		assert.Equal(t, minNonZeroCapacity*2, rv.Cap())
		assert.NoError(t, rv.Grow(100))
		assert.Equal(t, 100, rv.Cap())
		assert.NoError(t, rv.Grow(10))
		assert.Equal(t, 100, rv.Cap())
	})

	t.Run("capacity overflow", func(t *testing.T) {
		var rv RawVector[[1 << 20]byte]
		err := rv.Grow(int(^uint(0) >> 1))
		assert.Error(t, err)
		assert.Equal(t, 0, rv.Cap())
	})

	t.Run("zero-width types never allocate", func(t *testing.T) {
		var rv RawVector[struct{}]
		assert.NoError(t, rv.Grow(1<<30))
		assert.True(t, rv.buf == nil)
		assert.NoError(t, rv.Shrink(0))
		assert.NoError(t, rv.DeallocateNoDrop())
	})
}
