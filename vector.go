package vector

import (
	"fmt"
	"iter"

	"github.com/pkg/errors"
)

// Vector is a contiguous growable array of T. Live elements occupy the
// prefix [0, Len()) of a block obtained from an Allocator; the slots behind
// them are dead storage that costs nothing to hold. Growth doubles capacity
// and relocates the live prefix by the element type's relocation policy:
// ownership handoff for plain and Mover types, deep copies for types that
// declare Clone without Move (see the package documentation).
//
// The zero value is an empty vector on the heap allocator, ready to use.
// A Vector is not goroutine-safe; use SafeVector or external locking when
// sharing one.
type Vector[T any] struct {
	block RawBlock[T]
	size  int
	tr    traits[T]

	grows       int
	relocations int
	released    bool
}

// New returns an empty vector backed by the heap allocator.
func New[T any]() *Vector[T] {
	return NewIn[T](nil)
}

// NewIn returns an empty vector that obtains storage from alloc. A nil
// alloc means the heap allocator. No block is requested until the first
// element arrives.
func NewIn[T any](alloc Allocator[T]) *Vector[T] {
	if alloc == nil {
		alloc = HeapAllocator[T]{}
	}
	return &Vector[T]{block: RawBlock[T]{alloc: alloc}, tr: resolveTraits[T]()}
}

// NewSized returns a vector of n value-constructed elements on the heap
// allocator.
func NewSized[T any](n int) (*Vector[T], error) {
	return NewSizedIn[T](n, nil)
}

// NewSizedIn returns a vector of n value-constructed elements built in
// order from storage obtained from alloc. When the k-th construction fails
// the k elements already built are destroyed and the block is released
// before the error comes back. Panics if n is negative.
func NewSizedIn[T any](n int, alloc Allocator[T]) (*Vector[T], error) {
	if n < 0 {
		panic(fmt.Sprintf("vector: negative size %d", n))
	}
	v := NewIn[T](alloc)
	if n == 0 {
		return v, nil
	}
	block, err := NewRawBlock[T](v.block.alloc, n)
	if err != nil {
		return nil, errors.Wrapf(err, "construct %d elements", n)
	}
	if err := initSpan(&v.tr, block.Span(0, n)); err != nil {
		block.Release()
		return nil, errors.Wrapf(err, "construct %d elements", n)
	}
	v.block = block
	v.size = n
	return v, nil
}

// traits returns the operation table, resolving it on first use so the zero
// Vector behaves like New's result.
func (v *Vector[T]) traits() *traits[T] {
	if !v.tr.resolved {
		v.tr = resolveTraits[T]()
	}
	return &v.tr
}

// mustUsable panics when the vector has been released. Mutating operations
// call it; read operations on a released vector see an empty vector.
func (v *Vector[T]) mustUsable() {
	if v.released {
		panic("vector: use after Release()")
	}
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int {
	return v.size
}

// Cap returns the capacity of the current block in elements.
func (v *Vector[T]) Cap() int {
	return v.block.Cap()
}

// At returns the i-th element for reading or writing in place. The pointer
// stays valid until the next operation that grows, shifts, or destroys
// elements.
func (v *Vector[T]) At(i int) *T {
	if i < 0 || i >= v.size {
		panic(fmt.Sprintf("vector: index out of range [%d] with length %d", i, v.size))
	}
	return v.block.At(i)
}

// Slice returns the live prefix as a plain slice view, nil when empty. The
// view is invalidated by the same operations that invalidate At pointers
// and must not be appended to.
func (v *Vector[T]) Slice() []T {
	if v.size == 0 {
		return nil
	}
	return v.block.Span(0, v.size)
}

// All iterates index and element value over the live prefix in order.
// The vector must not be mutated during iteration.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, *v.block.At(i)) {
				return
			}
		}
	}
}

// Reserve grows capacity to at least n slots, relocating live elements into
// a fresh block. It never shrinks and never changes Len. On failure the
// vector is untouched.
func (v *Vector[T]) Reserve(n int) error {
	v.mustUsable()
	if n <= v.block.Cap() {
		return nil
	}
	newBlock, err := NewRawBlock[T](v.block.alloc, n)
	if err != nil {
		return errors.Wrapf(err, "reserve %d", n)
	}
	if err := v.relocateLive(&newBlock, v.size); err != nil {
		newBlock.Release()
		return errors.Wrapf(err, "reserve %d", n)
	}
	v.block.Swap(&newBlock)
	newBlock.Release()
	v.grows++
	return nil
}

// Resize changes Len to n. Growing value-constructs the new trailing
// elements in order; shrinking destroys the surplus. Capacity never
// shrinks. On failure Len is unchanged and no new element survives.
// Panics if n is negative.
func (v *Vector[T]) Resize(n int) error {
	v.mustUsable()
	switch {
	case n < 0:
		panic(fmt.Sprintf("vector: negative size %d", n))
	case n == v.size:
		return nil
	case n < v.size:
		releaseSpan(v.traits(), v.block.Span(n, v.size))
		v.size = n
		return nil
	}
	if err := v.Reserve(n); err != nil {
		return errors.Wrapf(err, "resize %d", n)
	}
	if err := initSpan(v.traits(), v.block.Span(v.size, n)); err != nil {
		return errors.Wrapf(err, "resize %d", n)
	}
	v.size = n
	return nil
}

// Append adds vals to the end in order, taking ownership of them. Capacity
// doubles when exhausted, one slot minimum. On failure the vector is
// untouched and ownership of vals stays with the caller.
func (v *Vector[T]) Append(vals ...T) error {
	v.mustUsable()
	if len(vals) == 0 {
		return nil
	}
	need := v.size + len(vals)
	if need <= v.block.Cap() {
		copy(v.block.Span(v.size, need), vals)
		v.size = need
		return nil
	}

	newBlock, err := NewRawBlock[T](v.block.alloc, nextCap(v.block.Cap(), need))
	if err != nil {
		return errors.Wrap(err, "append")
	}
	// New elements land at their final slots first; relocation of the old
	// prefix happens after, so a relocation failure cannot lose them.
	copy(newBlock.Span(v.size, need), vals)
	if err := v.relocateLive(&newBlock, v.size); err != nil {
		// Dropping the block without releasing the new values hands their
		// ownership back to the caller.
		newBlock.Release()
		return errors.Wrap(err, "append")
	}
	v.block.Swap(&newBlock)
	newBlock.Release()
	v.grows++
	v.size = need
	return nil
}

// AppendFunc constructs one element in place at the end: build runs on a
// dead zeroed slot and either completes the element or returns an error.
// On failure the vector is untouched.
func (v *Vector[T]) AppendFunc(build func(*T) error) error {
	v.mustUsable()
	var err error
	if v.size < v.block.Cap() {
		err = v.insertInPlace(v.size, build)
	} else {
		err = v.insertRealloc(v.size, build)
	}
	if err != nil {
		return errors.Wrap(err, "append")
	}
	return nil
}

// Insert places val at index i, shifting [i, Len()) one slot right. i may
// equal Len, which appends. The vector takes ownership of val. Without
// spare capacity the whole vector relocates and a failure leaves it
// untouched; with spare capacity a failing shift or construction leaves the
// documented weaker state: Len grown by one, a zero-value element in the
// hole, suffix order unspecified. Panics if i is out of range.
func (v *Vector[T]) Insert(i int, val T) error {
	return v.InsertFunc(i, func(slot *T) error {
		*slot = val
		return nil
	})
}

// InsertFunc is Insert with in-place construction: build runs on the dead
// zeroed slot at index i after the suffix has moved aside. Failure
// semantics match Insert.
func (v *Vector[T]) InsertFunc(i int, build func(*T) error) error {
	v.mustUsable()
	if i < 0 || i > v.size {
		panic(fmt.Sprintf("vector: insert index out of range [%d] with length %d", i, v.size))
	}
	var err error
	if v.size < v.block.Cap() {
		err = v.insertInPlace(i, build)
	} else {
		err = v.insertRealloc(i, build)
	}
	if err != nil {
		return errors.Wrap(err, "insert")
	}
	return nil
}

// insertInPlace vacates slot i inside the current block and constructs into
// it. Requires spare capacity.
func (v *Vector[T]) insertInPlace(i int, build func(*T) error) error {
	t := v.traits()
	if i == v.size {
		// Append position: nothing shifts, so failures roll back fully.
		slot := v.block.At(i)
		if err := build(slot); err != nil {
			var zero T
			*slot = zero
			return errors.Wrap(err, "construct element")
		}
		v.size++
		return nil
	}

	// Shift (i, size-1] right one slot, back to front so no slot is read
	// after being overwritten. The first step relocates the last element
	// into the spare slot. Every slot in [0, size] is observable from here
	// on, so size grows first; a failure mid-shift leaves the documented
	// weaker state rather than a hidden live element past Len.
	last := v.size
	v.size++
	if t.cloneOnRelocate {
		for j := last; j > i; j-- {
			c, err := t.cloneSlot(v.block.At(j - 1))
			if err != nil {
				return errors.Wrap(err, "shift")
			}
			*v.block.At(j) = c
			t.releaseSlot(v.block.At(j - 1))
		}
	} else {
		for j := last; j > i; j-- {
			t.moveSlot(v.block.At(j), v.block.At(j-1))
		}
	}
	if err := build(v.block.At(i)); err != nil {
		var zero T
		*v.block.At(i) = zero
		return errors.Wrap(err, "construct element")
	}
	return nil
}

// insertRealloc grows into a fresh block with the new element constructed
// at its final index before anything relocates, mirroring the append path.
// All failure modes leave the vector untouched.
func (v *Vector[T]) insertRealloc(i int, build func(*T) error) error {
	newBlock, err := NewRawBlock[T](v.block.alloc, nextCap(v.block.Cap(), v.size+1))
	if err != nil {
		return err
	}
	slot := newBlock.At(i)
	if err := build(slot); err != nil {
		var zero T
		*slot = zero
		newBlock.Release()
		return errors.Wrap(err, "construct element")
	}
	if err := v.relocateLive(&newBlock, i); err != nil {
		// The new element was fully constructed and is ours to destroy.
		v.traits().releaseSlot(slot)
		newBlock.Release()
		return err
	}
	v.block.Swap(&newBlock)
	newBlock.Release()
	v.grows++
	v.size++
	return nil
}

// Delete removes the element at i: the element is destroyed, [i+1, Len())
// shifts one slot left front to back, and the vacated last slot dies. For
// clone-relocating element types the shift itself can fail, leaving Len
// unchanged, a zero-value element in the hole, and suffix order
// unspecified; for every other type Delete cannot fail. Panics if i is out
// of range.
func (v *Vector[T]) Delete(i int) error {
	v.mustUsable()
	if i < 0 || i >= v.size {
		panic(fmt.Sprintf("vector: delete index out of range [%d] with length %d", i, v.size))
	}
	t := v.traits()
	t.releaseSlot(v.block.At(i))
	if t.cloneOnRelocate {
		for j := i; j+1 < v.size; j++ {
			c, err := t.cloneSlot(v.block.At(j + 1))
			if err != nil {
				return errors.Wrap(err, "delete shift")
			}
			*v.block.At(j) = c
			t.releaseSlot(v.block.At(j + 1))
		}
	} else {
		for j := i; j+1 < v.size; j++ {
			t.moveSlot(v.block.At(j), v.block.At(j+1))
		}
	}
	v.size--
	return nil
}

// Pop destroys the last element and reports whether there was one. It
// cannot fail otherwise.
func (v *Vector[T]) Pop() bool {
	v.mustUsable()
	if v.size == 0 {
		return false
	}
	v.traits().releaseSlot(v.block.At(v.size - 1))
	v.size--
	return true
}

// Clone returns a deep copy of the vector with capacity equal to Len, each
// element copied through Clone when the type provides it. The receiver is
// never modified. Move-only element types report ErrNotCloneable.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	v.mustUsable()
	t := v.traits()
	if !t.cloneable() {
		return nil, errors.Wrap(ErrNotCloneable, "clone")
	}
	out := NewIn[T](v.block.alloc)
	if v.size == 0 {
		return out, nil
	}
	block, err := NewRawBlock[T](v.block.alloc, v.size)
	if err != nil {
		return nil, errors.Wrap(err, "clone")
	}
	if err := cloneSpan(t, block.Span(0, v.size), v.block.Span(0, v.size)); err != nil {
		block.Release()
		return nil, errors.Wrap(err, "clone")
	}
	out.block = block
	out.size = v.size
	return out, nil
}

// CopyFrom makes v element-wise equal to src, keeping v's allocator.
//
// When v's block cannot hold src's elements, a complete copy is built first
// and swapped in, so failures leave v untouched. Otherwise storage is
// reused: the overlapping prefix is overwritten element by element, then
// surplus source elements are clone-constructed or surplus target elements
// destroyed. A clone failure on the reuse path leaves a valid vector whose
// prefix is partially overwritten and whose Len is unchanged.
//
// Copying from itself is a no-op. Move-only element types report
// ErrNotCloneable.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	v.mustUsable()
	if v == src {
		return nil
	}
	t := v.traits()
	if !t.cloneable() {
		return errors.Wrap(ErrNotCloneable, "copy")
	}

	if src.size > v.block.Cap() {
		block, err := NewRawBlock[T](v.block.alloc, src.size)
		if err != nil {
			return errors.Wrap(err, "copy")
		}
		if err := cloneSpan(t, block.Span(0, src.size), src.block.Span(0, src.size)); err != nil {
			block.Release()
			return errors.Wrap(err, "copy")
		}
		releaseSpan(t, v.block.Span(0, v.size))
		v.block.Swap(&block)
		block.Release()
		v.size = src.size
		v.grows++
		return nil
	}

	// Enough room: reuse the block, assigning over the common prefix.
	n := min(v.size, src.size)
	for i := 0; i < n; i++ {
		c, err := t.cloneSlot(src.block.At(i))
		if err != nil {
			return errors.Wrapf(err, "copy element %d", i)
		}
		t.releaseSlot(v.block.At(i))
		*v.block.At(i) = c
	}
	switch {
	case src.size > v.size:
		if err := cloneSpan(t, v.block.Span(v.size, src.size), src.block.Span(v.size, src.size)); err != nil {
			return errors.Wrap(err, "copy")
		}
	case src.size < v.size:
		releaseSpan(t, v.block.Span(src.size, v.size))
	}
	v.size = src.size
	return nil
}

// Swap exchanges the contents and counters of v and other in O(1). No
// element is constructed, destroyed, or relocated, so pointers obtained
// from At remain valid and simply belong to the other vector now. Swap with
// itself is a no-op.
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.mustUsable()
	other.mustUsable()
	if v == other {
		return
	}
	v.block.Swap(&other.block)
	v.size, other.size = other.size, v.size
	v.grows, other.grows = other.grows, v.grows
	v.relocations, other.relocations = other.relocations, v.relocations
}

// Take moves the contents out of v into a fresh vector in O(1), leaving v
// empty with a null block and its allocator, ready for reuse. It cannot
// fail.
func (v *Vector[T]) Take() *Vector[T] {
	v.mustUsable()
	out := NewIn[T](v.block.alloc)
	out.block = v.block.Take()
	out.size, v.size = v.size, 0
	out.grows, v.grows = v.grows, 0
	out.relocations, v.relocations = v.relocations, 0
	return out
}

// Reset destroys all live elements but keeps the block, like truncating to
// zero without giving up capacity.
func (v *Vector[T]) Reset() {
	v.mustUsable()
	releaseSpan(v.traits(), v.block.Span(0, v.size))
	v.size = 0
}

// Release destroys all live elements and returns the block to the
// allocator. Afterwards reads see an empty vector and mutating operations
// panic, mirroring the lifecycle of the arena allocator. Release is
// idempotent.
func (v *Vector[T]) Release() {
	if v.released {
		return
	}
	releaseSpan(v.traits(), v.block.Span(0, v.size))
	v.size = 0
	v.block.Release()
	v.released = true
}

// relocateLive populates the dead block dst from the live prefix: elements
// [0, at) keep their offsets, [at, size) land one slot further right, and
// slot at stays dead for the caller to fill. Pass at == Len for a straight
// relocation. Move relocation cannot fail. Clone relocation leaves the
// originals whole until every clone has succeeded, then destroys them; on
// failure dst is dead again and the vector is untouched.
func (v *Vector[T]) relocateLive(dst *RawBlock[T], at int) error {
	t := v.traits()
	head := v.block.Span(0, at)
	tail := v.block.Span(at, v.size)
	dstHead := dst.Span(0, at)
	var dstTail []T
	if len(tail) > 0 {
		dstTail = dst.Span(at+1, at+1+len(tail))
	}

	if t.cloneOnRelocate {
		if err := cloneSpan(t, dstHead, head); err != nil {
			return err
		}
		if err := cloneSpan(t, dstTail, tail); err != nil {
			releaseSpan(t, dstHead)
			return err
		}
		releaseSpan(t, head)
		releaseSpan(t, tail)
	} else {
		moveSpan(t, dstHead, head)
		moveSpan(t, dstTail, tail)
	}
	v.relocations += len(head) + len(tail)
	return nil
}

// nextCap doubles oldCap until it covers need, with a floor of one slot.
func nextCap(oldCap, need int) int {
	next := oldCap * 2
	if next < 1 {
		next = 1
	}
	for next < need {
		next *= 2
	}
	return next
}
