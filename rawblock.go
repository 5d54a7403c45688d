package vector

import (
	"fmt"

	"github.com/pkg/errors"
)

// RawBlock owns one fixed run of element slots obtained from an Allocator,
// and nothing more: it does not track which slots hold live elements, and
// releasing it never touches element state. Whoever owns the block is
// responsible for destroying elements before giving the slots back.
//
// Exactly one owner holds a given block at a time. Ownership moves through
// Take or Swap; RawBlock values must not be duplicated by plain assignment.
type RawBlock[T any] struct {
	slots []T
	alloc Allocator[T]
}

// NewRawBlock requests capacity slots from alloc. A capacity of zero or
// less yields a null block and performs no allocation. A nil alloc means
// the heap allocator. The allocator may round the request up, so Cap of the
// result can exceed capacity.
func NewRawBlock[T any](alloc Allocator[T], capacity int) (RawBlock[T], error) {
	if alloc == nil {
		alloc = HeapAllocator[T]{}
	}
	if capacity <= 0 {
		return RawBlock[T]{alloc: alloc}, nil
	}
	slots, err := alloc.Allocate(capacity)
	if err != nil {
		return RawBlock[T]{}, errors.Wrapf(err, "allocate %d slots", capacity)
	}
	return RawBlock[T]{slots: slots, alloc: alloc}, nil
}

// Cap returns the number of slots in the block; zero for a null block.
func (b *RawBlock[T]) Cap() int {
	return len(b.slots)
}

// At returns the i-th slot. Whether the slot holds a live element is the
// owner's business; the block only checks that i is inside the block.
func (b *RawBlock[T]) At(i int) *T {
	if i < 0 || i >= len(b.slots) {
		panic(fmt.Sprintf("vector: slot index out of range [%d] with capacity %d", i, len(b.slots)))
	}
	return &b.slots[i]
}

// Span returns the slots in [lo, hi) as a view into the block. hi may equal
// Cap, the one-past-the-end position. The view must not be appended to.
func (b *RawBlock[T]) Span(lo, hi int) []T {
	if lo < 0 || hi < lo || hi > len(b.slots) {
		panic(fmt.Sprintf("vector: slot range [%d:%d] out of range with capacity %d", lo, hi, len(b.slots)))
	}
	return b.slots[lo:hi:hi]
}

// Take moves ownership of the slots out of b, leaving b a null block that
// still remembers its allocator and can be reused.
func (b *RawBlock[T]) Take() RawBlock[T] {
	out := *b
	b.slots = nil
	return out
}

// Swap exchanges the blocks owned by b and other in O(1).
func (b *RawBlock[T]) Swap(other *RawBlock[T]) {
	*b, *other = *other, *b
}

// Release gives the slots back to the allocator and leaves b null.
// Elements living in the block are not destroyed; that must happen before
// Release. Releasing a null block is a no-op.
func (b *RawBlock[T]) Release() {
	if b.slots == nil {
		return
	}
	b.alloc.Free(b.slots)
	b.slots = nil
}
