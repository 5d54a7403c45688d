package vector

import (
	"github.com/prometheus/prometheus/util/pool"
	"go.uber.org/atomic"
)

// PoolAllocator recycles freed blocks through power-of-factor size classes,
// cutting heap churn for workloads that build and release vectors at a high
// rate. Blocks are rounded up to the class size, so vectors backed by a pool
// usually get more capacity than they asked for. Safe for concurrent use.
type PoolAllocator[T any] struct {
	pool     *pool.Pool
	maxSlots int

	gets     atomic.Int64
	puts     atomic.Int64
	oversize atomic.Int64
}

// PoolStats is a point-in-time snapshot of pool traffic.
type PoolStats struct {
	Gets     int64 // blocks handed out
	Puts     int64 // blocks taken back
	Oversize int64 // requests beyond the largest class, served unpooled
}

// NewPoolAllocator builds a pool with size classes spanning minBytes to
// maxBytes, each class factor times the previous. Sizes are in bytes and
// converted to whole element counts, with a floor of one element per class.
// Requests larger than the top class are served straight from the heap and
// not recycled.
func NewPoolAllocator[T any](minBytes, maxBytes int, factor float64) *PoolAllocator[T] {
	elemSize := int(sizeOf[T]())
	if elemSize < 1 {
		elemSize = 1
	}
	minSlots := minBytes / elemSize
	if minSlots < 1 {
		minSlots = 1
	}
	maxSlots := maxBytes / elemSize
	if maxSlots < minSlots {
		maxSlots = minSlots
	}
	return &PoolAllocator[T]{
		pool: pool.New(minSlots, maxSlots, factor, func(sz int) interface{} {
			return make([]T, sz)
		}),
		maxSlots: maxSlots,
	}
}

// Allocate returns a zeroed block of at least n slots, reusing a pooled
// block of the matching class when one is available.
func (p *PoolAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	p.gets.Inc()
	if n > p.maxSlots {
		p.oversize.Inc()
	}
	// Pooled blocks were wiped on Free and fresh ones come zeroed from make.
	return p.pool.Get(n).([]T), nil
}

// Free wipes the block and returns it to its size class. Blocks beyond the
// largest class are left to the garbage collector.
func (p *PoolAllocator[T]) Free(block []T) {
	if len(block) == 0 {
		return
	}
	p.puts.Inc()
	clear(block)
	p.pool.Put(block)
}

// Stats returns a snapshot of pool traffic counters.
func (p *PoolAllocator[T]) Stats() PoolStats {
	return PoolStats{
		Gets:     p.gets.Load(),
		Puts:     p.puts.Load(),
		Oversize: p.oversize.Load(),
	}
}
