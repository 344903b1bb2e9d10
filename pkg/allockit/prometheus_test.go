package allockit_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/rawvec/pkg/allockit"
)

func TestInstrument(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	alloc := allockit.Instrument[int](allockit.Global[int]{}, allockit.Prometheus(reg, func(c *allockit.PrometheusConfig) {
		c.LiveElements.ConstLabels = prometheus.Labels{"type": "int"}
	}))

	buf, err := alloc.Allocate(4)
	assert.NoError(t, err)
	buf, err = alloc.Grow(buf, 10)
	assert.NoError(t, err)
	buf, err = alloc.Shrink(buf, 6)
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "rawvec_allocator_live_elements")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, alloc.DeallocateNoDrop(buf))
	_, err = alloc.Allocate(-1)
	assert.Error(t, err)

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP rawvec_allocator_allocations_total Number of buffers allocated
# TYPE rawvec_allocator_allocations_total counter
rawvec_allocator_allocations_total 1
# HELP rawvec_allocator_grows_total Number of buffer grow operations
# TYPE rawvec_allocator_grows_total counter
rawvec_allocator_grows_total 1
# HELP rawvec_allocator_live_elements Capacity, in elements, of the buffers currently allocated
# TYPE rawvec_allocator_live_elements gauge
rawvec_allocator_live_elements{type="int"} 0
# HELP rawvec_allocator_releases_total Number of buffers released without dropping their elements
# TYPE rawvec_allocator_releases_total counter
rawvec_allocator_releases_total 1
# HELP rawvec_allocator_shrinks_total Number of buffer shrink operations
# TYPE rawvec_allocator_shrinks_total counter
rawvec_allocator_shrinks_total 1
`), "rawvec_allocator_allocations_total",
		"rawvec_allocator_grows_total",
		"rawvec_allocator_live_elements",
		"rawvec_allocator_releases_total",
		"rawvec_allocator_shrinks_total",
	))
}

func TestInstrument_nilConfig(t *testing.T) {
	alloc := allockit.Instrument[string](nil, nil)
	buf, err := alloc.Allocate(2)
	assert.NoError(t, err)
	assert.NoError(t, alloc.DeallocateNoDrop(buf))
}
