package datastructcontract

import (
	"testing"

	"go.llib.dev/frameless/port/contract"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/rawvec/pkg/datastruct"
)

// ConsumingIterSubject is what a ConsumingIter contract exercise.
type ConsumingIterSubject struct {
	// Iter must own the values it was made from, in their original order.
	Iter datastruct.DoubleEndedIter[*Droppable]
	// LiveBuffers is optional, it reports how many storage buffers of Iter are not yet released.
	LiveBuffers func() int
}

// ConsumingIter is the contract of an iterator that takes over the ownership of its elements.
// Every element must be dropped exactly once: either by the caller who received it,
// or by the iterator when it is closed.
func ConsumingIter(mk func(tb testing.TB, vs []*Droppable) ConsumingIterSubject) contract.Contract {
	s := testcase.NewSpec(nil)

	type fixture struct {
		counter *DropCounter
		values  []*Droppable
		subject ConsumingIterSubject
	}
	makeFixture := func(t *testcase.T, n int) fixture {
		counter := &DropCounter{}
		vs := counter.MakeN(n)
		return fixture{counter: counter, values: vs, subject: mk(t, vs)}
	}
	randomLen := func(t *testcase.T) int {
		return t.Random.IntBetween(0, 42)
	}
	assertReleased := func(t *testcase.T, f fixture) {
		if f.subject.LiveBuffers == nil {
			return
		}
		assert.Equal(t, 0, f.subject.LiveBuffers())
	}
	assertDroppedExactlyOnce := func(t *testcase.T, f fixture) {
		assert.Equal(t, len(f.values), f.counter.Total())
		assert.Empty(t, f.counter.Twice())
		for _, v := range f.values {
			assert.Equal(t, 1, f.counter.Dropped(v.ID))
		}
	}

	s.Test("forward draining yields every element in order", func(t *testcase.T) {
		f := makeFixture(t, randomLen(t))
		itr := f.subject.Iter
		got := []*Droppable{}
		for itr.Next() {
			got = append(got, itr.Value())
		}
		assert.Equal(t, f.values, got)
		for _, v := range got {
			v.Drop()
		}
		assert.NoError(t, itr.Close())
		assertDroppedExactlyOnce(t, f)
		assertReleased(t, f)
	})

	s.Test("backward draining yields every element in reverse order", func(t *testcase.T) {
		f := makeFixture(t, randomLen(t))
		itr := f.subject.Iter
		got := []*Droppable{}
		for itr.NextBack() {
			got = append([]*Droppable{itr.Value()}, got...)
		}
		assert.Equal(t, f.values, got)
		for _, v := range got {
			v.Drop()
		}
		assert.NoError(t, itr.Close())
		assertDroppedExactlyOnce(t, f)
	})

	s.Test("interleaved draws from both ends meet without skipping or repeating", func(t *testcase.T) {
		n := randomLen(t)
		f := makeFixture(t, n)
		itr := f.subject.Iter
		var (
			front, back []*Droppable
			draws       int
		)
		for {
			lower, upper := itr.SizeHint()
			assert.Equal(t, n-draws, lower)
			assert.Equal(t, n-draws, upper)
			if t.Random.Bool() {
				if !itr.Next() {
					break
				}
				front = append(front, itr.Value())
			} else {
				if !itr.NextBack() {
					break
				}
				back = append([]*Droppable{itr.Value()}, back...)
			}
			draws++
		}
		assert.Equal(t, n, draws)
		got := append(append([]*Droppable{}, front...), back...)
		assert.Equal(t, f.values, got)
		assert.False(t, itr.Next())
		assert.False(t, itr.NextBack())
		assert.NoError(t, itr.Close())
		assert.Equal(t, 0, f.counter.Total(), "drawn elements belong to the caller")
	})

	s.Test("closing after a partial draw drops exactly the remaining elements", func(t *testcase.T) {
		n := t.Random.IntBetween(1, 42)
		f := makeFixture(t, n)
		itr := f.subject.Iter
		k := t.Random.IntBetween(0, n)
		var drawn []*Droppable
		for i := 0; i < k; i++ {
			if t.Random.Bool() {
				assert.True(t, itr.Next())
			} else {
				assert.True(t, itr.NextBack())
			}
			drawn = append(drawn, itr.Value())
		}
		assert.NoError(t, itr.Close())
		assert.Equal(t, n-k, f.counter.Total())
		for _, v := range drawn {
			assert.Equal(t, 0, f.counter.Dropped(v.ID))
			v.Drop()
		}
		assertDroppedExactlyOnce(t, f)
		assertReleased(t, f)
	})

	s.Test("closing before any draw drops everything", func(t *testcase.T) {
		f := makeFixture(t, randomLen(t))
		assert.NoError(t, f.subject.Iter.Close())
		assertDroppedExactlyOnce(t, f)
		assertReleased(t, f)
	})

	s.Test("closing is idempotent", func(t *testcase.T) {
		f := makeFixture(t, randomLen(t))
		itr := f.subject.Iter
		assert.NoError(t, itr.Close())
		t.Random.Repeat(1, 3, func() {
			assert.NoError(t, itr.Close())
		})
		assert.False(t, itr.Next())
		assert.False(t, itr.NextBack())
		assertDroppedExactlyOnce(t, f)
		assertReleased(t, f)
	})

	return s.AsSuite("ConsumingIter")
}
