package datastructcontract

import "sync"

// DropCounter records the destruction of the Droppable values it made.
type DropCounter struct {
	m     sync.Mutex
	next  int
	drops map[int]int
}

// Make creates a Droppable that holds a boxed copy of the value.
func (c *DropCounter) Make(value int) *Droppable {
	c.m.Lock()
	defer c.m.Unlock()
	id := c.next
	c.next++
	return &Droppable{ID: id, Value: &value, counter: c}
}

// MakeN creates n Droppable with the values of 0..n-1.
func (c *DropCounter) MakeN(n int) []*Droppable {
	out := make([]*Droppable, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, c.Make(i))
	}
	return out
}

// Total is the number of Drop calls observed.
func (c *DropCounter) Total() int {
	c.m.Lock()
	defer c.m.Unlock()
	var total int
	for _, n := range c.drops {
		total += n
	}
	return total
}

// Dropped tells how many times the Droppable with the id was dropped.
func (c *DropCounter) Dropped(id int) int {
	c.m.Lock()
	defer c.m.Unlock()
	return c.drops[id]
}

// Twice lists the ids that were dropped more than once.
func (c *DropCounter) Twice() []int {
	c.m.Lock()
	defer c.m.Unlock()
	var ids []int
	for id, n := range c.drops {
		if 1 < n {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *DropCounter) drop(id int) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.drops == nil {
		c.drops = make(map[int]int)
	}
	c.drops[id]++
}

// Droppable is an owned, boxed integer whose destruction is observable through its DropCounter.
type Droppable struct {
	ID    int
	Value *int

	counter *DropCounter
}

func (d *Droppable) Drop() {
	d.counter.drop(d.ID)
}
