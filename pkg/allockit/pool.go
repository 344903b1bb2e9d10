package allockit

import (
	"math/bits"
	"sync"

	"go.llib.dev/frameless/pkg/env"
	"go.llib.dev/frameless/pkg/zerokit"
)

const (
	DefaultPoolMinCapacity = 4
	DefaultPoolMaxCapacity = 1 << 16
)

type PoolConfig struct {
	// MinCapacity is the smallest size class.
	// Requests below it are served with a MinCapacity sized backing array.
	MinCapacity int `env:"RAWVEC_POOL_MIN_CAPACITY" default:"4"`
	// MaxCapacity is the largest pooled size class.
	// Buffers above it are allocated and released without pooling.
	MaxCapacity int `env:"RAWVEC_POOL_MAX_CAPACITY" default:"65536"`
}

// LoadPoolConfig reads the PoolConfig from the environment.
func LoadPoolConfig() (PoolConfig, error) {
	var c PoolConfig
	if err := env.Load(&c); err != nil {
		return c, err
	}
	return c.normalise(), nil
}

func (c PoolConfig) normalise() PoolConfig {
	c.MinCapacity = zerokit.Coalesce(c.MinCapacity, DefaultPoolMinCapacity)
	c.MaxCapacity = zerokit.Coalesce(c.MaxCapacity, DefaultPoolMaxCapacity)
	c.MinCapacity = ceilPow2(c.MinCapacity)
	if c.MaxCapacity < c.MinCapacity {
		c.MaxCapacity = c.MinCapacity
	}
	return c
}

// Pool is an Allocator that recycles released buffers in power-of-two size classes.
// Pool is safe for concurrent use, but the buffers it hands out are single owner.
type Pool[T any] struct {
	Config PoolConfig

	init    sync.Once
	classes map[int]*sync.Pool
}

func NewPool[T any](c PoolConfig) *Pool[T] {
	return &Pool[T]{Config: c}
}

func (p *Pool[T]) config() PoolConfig {
	p.init.Do(func() {
		p.Config = p.Config.normalise()
		p.classes = make(map[int]*sync.Pool)
		for class := p.Config.MinCapacity; 0 < class && class <= p.Config.MaxCapacity; class <<= 1 {
			p.classes[class] = &sync.Pool{}
		}
	})
	return p.Config
}

func (p *Pool[T]) Allocate(capacity int) ([]T, error) {
	if err := checkCapacity[T](capacity); err != nil {
		return nil, err
	}
	if capacity == 0 || IsZeroSized[T]() {
		return make([]T, capacity), nil
	}
	c := p.config()
	class := ceilPow2(max(capacity, c.MinCapacity))
	pool, ok := p.classes[class]
	if !ok {
		return make([]T, capacity), nil
	}
	if ptr, ok := pool.Get().(*[]T); ok {
		return (*ptr)[:capacity], nil
	}
	return make([]T, class)[:capacity], nil
}

func (p *Pool[T]) Grow(buf []T, capacity int) ([]T, error) {
	if capacity < len(buf) {
		return nil, ErrInvalidCapacity.F("grow from %d to %d", len(buf), capacity)
	}
	if capacity <= cap(buf) {
		return buf[:capacity], nil
	}
	out, err := p.Allocate(capacity)
	if err != nil {
		return nil, err
	}
	copy(out, buf)
	return out, p.DeallocateNoDrop(buf)
}

func (p *Pool[T]) Shrink(buf []T, capacity int) ([]T, error) {
	if capacity < 0 || len(buf) < capacity {
		return nil, ErrInvalidCapacity.F("shrink from %d to %d", len(buf), capacity)
	}
	out, err := p.Allocate(capacity)
	if err != nil {
		return nil, err
	}
	copy(out, buf)
	return out, p.DeallocateNoDrop(buf)
}

func (p *Pool[T]) DeallocateNoDrop(buf []T) error {
	if cap(buf) == 0 || IsZeroSized[T]() {
		return nil
	}
	buf = buf[:cap(buf)]
	clear(buf)
	p.config()
	pool, ok := p.classes[cap(buf)]
	if !ok {
		return nil
	}
	pool.Put(&buf)
	return nil
}

func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
