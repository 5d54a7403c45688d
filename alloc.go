package vector

import (
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// ErrOutOfMemory is reported when an allocator cannot satisfy a block
// request. Operations that grow a vector wrap it with the request that
// triggered the growth; match it with errors.Is.
var ErrOutOfMemory = errors.New("vector: out of memory")

// Allocator hands out blocks of element slots. The vector treats every slot
// of a returned block as dead storage: it constructs elements into slots
// itself and wipes them before giving the block back.
//
// Implementations may round a request up to a size class, so a returned
// block can be longer than asked for. Every slot of a returned block must
// hold the zero value of T.
type Allocator[T any] interface {
	// Allocate returns a block of at least n zeroed slots, or an error
	// (usually wrapping ErrOutOfMemory) when the request cannot be met.
	Allocate(n int) ([]T, error)

	// Free takes back a block previously returned by Allocate. Callers
	// must not touch the block afterwards.
	Free(block []T)
}

// HeapAllocator allocates blocks straight from the Go heap and leaves
// reclamation to the garbage collector. It never fails, carries no state,
// and the zero value is ready to use. It is the allocator every vector
// constructed without an explicit one gets.
type HeapAllocator[T any] struct{}

// Allocate returns a fresh zeroed block of exactly n slots.
func (HeapAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	return make([]T, n), nil
}

// Free drops the block reference; the garbage collector does the rest.
func (HeapAllocator[T]) Free([]T) {}

// LimitedAllocator enforces a byte budget on top of another allocator.
// Requests that would push the total of outstanding blocks past the budget
// fail with ErrOutOfMemory instead of reaching the inner allocator. It is
// safe for concurrent use when the inner allocator is.
type LimitedAllocator[T any] struct {
	inner Allocator[T]
	limit int64
	inUse atomic.Int64
}

// NewLimitedAllocator wraps inner with a budget of limitBytes. A nil inner
// means the heap allocator.
func NewLimitedAllocator[T any](inner Allocator[T], limitBytes int64) *LimitedAllocator[T] {
	if inner == nil {
		inner = HeapAllocator[T]{}
	}
	return &LimitedAllocator[T]{inner: inner, limit: limitBytes}
}

// Allocate charges the request against the budget before delegating, and
// refunds the charge if the inner allocator fails.
func (l *LimitedAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	size := int64(n) * int64(sizeOf[T]())
	if used := l.inUse.Add(size); used > l.limit {
		l.inUse.Sub(size)
		return nil, errors.Wrapf(ErrOutOfMemory,
			"allocate %s: %s of %s budget in use",
			humanize.IBytes(uint64(size)),
			humanize.IBytes(uint64(used-size)),
			humanize.IBytes(uint64(l.limit)))
	}
	block, err := l.inner.Allocate(n)
	if err != nil {
		l.inUse.Sub(size)
		return nil, err
	}
	// The inner allocator may round up; charge what was actually handed out.
	if extra := int64(len(block)-n) * int64(sizeOf[T]()); extra > 0 {
		l.inUse.Add(extra)
	}
	return block, nil
}

// Free refunds the block's bytes and passes it to the inner allocator.
func (l *LimitedAllocator[T]) Free(block []T) {
	if len(block) == 0 {
		return
	}
	l.inUse.Sub(int64(len(block)) * int64(sizeOf[T]()))
	l.inner.Free(block)
}

// InUse returns the number of bytes currently charged against the budget.
func (l *LimitedAllocator[T]) InUse() int64 {
	return l.inUse.Load()
}

// Limit returns the budget in bytes.
func (l *LimitedAllocator[T]) Limit() int64 {
	return l.limit
}

func sizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}
