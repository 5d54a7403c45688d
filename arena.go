package vector

// DefaultChunkSize is the default arena chunk size in bytes (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk is a single run of element slots within an arena.
type chunk[T any] struct {
	slots  []T
	offset int // allocation offset within slots, in elements
}

// ArenaAllocator hands out blocks carved from large typed chunks with a bump
// offset. Individual Free calls are no-ops: memory comes back only in bulk,
// through Reset (keep chunks for reuse) or Release (drop everything).
// Typical usage is one arena per request or batch, feeding every vector built
// while serving it, then one Reset at the end.
//
// Not goroutine-safe. Guard it externally when vectors on different
// goroutines share one arena.
type ArenaAllocator[T any] struct {
	chunks   []chunk[T]
	chunkLen int // elements per chunk
	elemSize int // bytes per element, for the byte-denominated stats
	current  *chunk[T]
}

// NewArenaAllocator creates an arena whose chunks hold about chunkBytes of
// elements, at least one element per chunk. If chunkBytes <= 0,
// DefaultChunkSize is used.
func NewArenaAllocator[T any](chunkBytes int) *ArenaAllocator[T] {
	if chunkBytes <= 0 {
		chunkBytes = DefaultChunkSize
	}
	elemSize := int(sizeOf[T]())
	denom := elemSize
	if denom < 1 {
		denom = 1
	}
	chunkLen := chunkBytes / denom
	if chunkLen < 1 {
		chunkLen = 1
	}
	a := &ArenaAllocator[T]{chunkLen: chunkLen, elemSize: elemSize}
	a.grow(chunkLen)
	return a
}

// Allocate returns the next n zeroed slots of the current chunk, growing the
// arena when they do not fit. It never fails; it panics after Release.
func (a *ArenaAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}

	// Fast path: bump within the cached current chunk.
	if c := a.current; c != nil && c.offset+n <= len(c.slots) {
		block := c.slots[c.offset : c.offset+n : c.offset+n]
		c.offset += n
		return block, nil
	}

	return a.allocateSlow(n)
}

// allocateSlow handles allocation when the current chunk is full.
func (a *ArenaAllocator[T]) allocateSlow(n int) ([]T, error) {
	a.panicIfReleased()

	a.grow(n)
	c := a.current
	block := c.slots[c.offset : c.offset+n : c.offset+n]
	c.offset += n
	return block, nil
}

// Free is a no-op; arena memory is reclaimed in bulk by Reset or Release.
func (a *ArenaAllocator[T]) Free([]T) {}

// EnsureCapacity makes sure the current chunk has at least n free slots,
// growing the arena with a new chunk when it does not.
func (a *ArenaAllocator[T]) EnsureCapacity(n int) {
	a.panicIfReleased()
	c := a.current
	if c == nil || c.offset+n > len(c.slots) {
		a.grow(n)
	}
}

// Reset reclaims every block handed out so far while keeping the chunks for
// reuse. Used spans are wiped so the collector can reclaim whatever the
// elements referenced. Outstanding blocks must not be used afterwards.
func (a *ArenaAllocator[T]) Reset() {
	a.panicIfReleased()
	for i := range a.chunks {
		c := &a.chunks[i]
		clear(c.slots[:c.offset])
		c.offset = 0
	}
	// Point the cached chunk back at the first chunk.
	if len(a.chunks) > 0 {
		a.current = &a.chunks[0]
	}
}

// Release drops all chunks and makes the arena unusable.
// Any subsequent Allocate, EnsureCapacity, or Reset will panic.
func (a *ArenaAllocator[T]) Release() {
	a.chunks = nil
	a.current = nil
}

// grow appends a new chunk of at least min elements.
func (a *ArenaAllocator[T]) grow(min int) {
	size := a.chunkLen
	if min > size {
		size = min
	}
	a.chunks = append(a.chunks, chunk[T]{slots: make([]T, size)})
	a.current = &a.chunks[len(a.chunks)-1]
}

// panicIfReleased panics if the arena has been released.
func (a *ArenaAllocator[T]) panicIfReleased() {
	if a.chunks == nil {
		panic("vector: arena use after Release()")
	}
}
