package vector

import (
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AllocatorMetrics holds the prometheus instruments recorded by
// InstrumentedAllocator. One instance may be shared by several allocators
// feeding the same registry.
type AllocatorMetrics struct {
	allocations prometheus.Counter
	failures    prometheus.Counter
	frees       prometheus.Counter
	blockBytes  prometheus.Histogram
}

// NewAllocatorMetrics registers the allocator instruments with reg. A nil
// reg leaves them unregistered, which is convenient in tests.
func NewAllocatorMetrics(reg prometheus.Registerer) *AllocatorMetrics {
	return &AllocatorMetrics{
		allocations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vector_allocator_blocks_total",
			Help: "Total number of blocks handed out by the allocator.",
		}),
		failures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vector_allocator_failures_total",
			Help: "Total number of block requests the allocator could not satisfy.",
		}),
		frees: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vector_allocator_frees_total",
			Help: "Total number of blocks returned to the allocator.",
		}),
		blockBytes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name: "vector_allocator_block_size_bytes",
			Help: "Size of requested blocks in bytes.",
			// From a handful of slots up to multi-megabyte reserves.
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		}),
	}
}

// InstrumentedAllocator wraps another allocator with prometheus metrics and
// failure logging. It adds nothing to the allocation semantics.
type InstrumentedAllocator[T any] struct {
	inner   Allocator[T]
	metrics *AllocatorMetrics
	logger  log.Logger
}

// NewInstrumentedAllocator decorates inner. A nil inner means the heap
// allocator, nil metrics records into an unregistered set, and a nil logger
// silences the failure log.
func NewInstrumentedAllocator[T any](inner Allocator[T], metrics *AllocatorMetrics, logger log.Logger) *InstrumentedAllocator[T] {
	if inner == nil {
		inner = HeapAllocator[T]{}
	}
	if metrics == nil {
		metrics = NewAllocatorMetrics(nil)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &InstrumentedAllocator[T]{inner: inner, metrics: metrics, logger: logger}
}

// Allocate delegates to the inner allocator, counting the outcome and
// logging failures with the request size.
func (ia *InstrumentedAllocator[T]) Allocate(n int) ([]T, error) {
	block, err := ia.inner.Allocate(n)
	if err != nil {
		ia.metrics.failures.Inc()
		level.Warn(ia.logger).Log(
			"msg", "block allocation failed",
			"slots", n,
			"size", humanize.IBytes(uint64(n)*uint64(sizeOf[T]())),
			"err", err,
		)
		return nil, err
	}
	ia.metrics.allocations.Inc()
	ia.metrics.blockBytes.Observe(float64(uint64(len(block)) * uint64(sizeOf[T]())))
	level.Debug(ia.logger).Log(
		"msg", "block allocated",
		"slots", len(block),
		"size", humanize.IBytes(uint64(len(block))*uint64(sizeOf[T]())),
	)
	return block, nil
}

// Free counts the return and delegates to the inner allocator.
func (ia *InstrumentedAllocator[T]) Free(block []T) {
	if len(block) == 0 {
		return
	}
	ia.metrics.frees.Inc()
	ia.inner.Free(block)
}
