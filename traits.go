package vector

import "github.com/pkg/errors"

// ErrNotCloneable is reported when a copy is requested of an element type
// that relocates by ownership handoff (implements Mover) without offering
// Clone. Match it with errors.Is.
var ErrNotCloneable = errors.New("vector: element type is not cloneable")

// Cloner is implemented by element types whose copies are deep or can fail.
// Every copy the container makes of such an element goes through Clone:
// Vector.Clone, Vector.CopyFrom, and relocation of clone-relocating types.
// Clone must leave the receiver untouched.
type Cloner[T any] interface {
	Clone() (T, error)
}

// Mover is implemented by element types that relocate by handing their
// value to the destination. Move returns the receiver's value and must
// leave the receiver dead, equal to the zero value; with a value receiver
// the container zeroes the source slot itself. Move must not fail.
//
// Declaring Mover selects move relocation during growth. A type with Mover
// and no Cloner is move-only: the container refuses to copy it.
type Mover[T any] interface {
	Move() T
}

// Releaser is implemented by element types that hold resources beyond their
// own memory. The container calls Release exactly once on each live element
// it destroys, then wipes the slot. Elements moved out of a slot are not
// released; their value lives on at the destination.
type Releaser interface {
	Release()
}

// Initializer is implemented by element types whose value construction goes
// beyond the zero value. Init runs on a zeroed slot. A failed Init aborts
// the surrounding bulk construction; the slot is wiped, not released.
type Initializer interface {
	Init() error
}

// traits is the per-type operation table. It is resolved once per element
// type so capability checks stay out of the relocation loops.
type traits[T any] struct {
	resolved bool

	// cloneOnRelocate selects clone relocation for types with Clone and no
	// Move: their values may be address-sensitive, so growth copies them
	// and destroys the originals instead of handing values over.
	cloneOnRelocate bool

	// moveSlot transfers the value in src to dst and deadens src.
	moveSlot func(dst, src *T)

	// cloneSlot deep-copies src, leaving it untouched. Nil for move-only
	// types; every copy path must check and report ErrNotCloneable.
	cloneSlot func(src *T) (T, error)

	// releaseSlot destroys the live element in p and deadens the slot.
	releaseSlot func(p *T)

	// initSlot value-constructs a zeroed slot. Nil when the zero value is
	// already the constructed state.
	initSlot func(p *T) error
}

// resolveTraits inspects *T once and builds the operation table.
func resolveTraits[T any]() traits[T] {
	var (
		probe *T
		zero  T
		t     = traits[T]{resolved: true}
	)
	_, hasMover := any(probe).(Mover[T])
	_, hasCloner := any(probe).(Cloner[T])
	_, hasReleaser := any(probe).(Releaser)
	_, hasInitializer := any(probe).(Initializer)

	if hasMover {
		t.moveSlot = func(dst, src *T) {
			*dst = any(src).(Mover[T]).Move()
			// A value-receiver Move cannot deaden its slot; finish the job.
			*src = zero
		}
	} else {
		t.moveSlot = func(dst, src *T) {
			*dst = *src
			*src = zero
		}
	}

	switch {
	case hasCloner:
		t.cloneSlot = func(src *T) (T, error) {
			return any(src).(Cloner[T]).Clone()
		}
		t.cloneOnRelocate = !hasMover
	case !hasMover:
		// Plain types copy by assignment, which cannot fail.
		t.cloneSlot = func(src *T) (T, error) {
			return *src, nil
		}
	}

	if hasReleaser {
		t.releaseSlot = func(p *T) {
			any(p).(Releaser).Release()
			*p = zero
		}
	} else {
		t.releaseSlot = func(p *T) {
			*p = zero
		}
	}

	if hasInitializer {
		t.initSlot = func(p *T) error {
			return any(p).(Initializer).Init()
		}
	}
	return t
}

// cloneable reports whether the element type can be copied at all.
func (t *traits[T]) cloneable() bool {
	return t.cloneSlot != nil
}

// releaseSpan destroys the live elements in slots, front to back, leaving
// every slot dead.
func releaseSpan[T any](t *traits[T], slots []T) {
	for i := range slots {
		t.releaseSlot(&slots[i])
	}
}

// initSpan value-constructs every slot of a dead span in order. When the
// k-th construction fails, the k elements already built are destroyed, the
// failing slot is wiped, and the error names the index.
func initSpan[T any](t *traits[T], slots []T) error {
	if t.initSlot == nil {
		// The slots are already zeroed, which is the constructed state.
		return nil
	}
	var zero T
	for i := range slots {
		if err := t.initSlot(&slots[i]); err != nil {
			slots[i] = zero
			releaseSpan(t, slots[:i])
			return errors.Wrapf(err, "construct element %d", i)
		}
	}
	return nil
}

// moveSpan relocates src into dst by ownership handoff, front to back,
// deadening src as it goes. It cannot fail. dst and src must not overlap.
func moveSpan[T any](t *traits[T], dst, src []T) {
	for i := range src {
		t.moveSlot(&dst[i], &src[i])
	}
}

// cloneSpan fills the dead span dst with clones of src, leaving src
// untouched. When the k-th clone fails the k clones already made are
// destroyed, so dst is dead again and src is still whole.
func cloneSpan[T any](t *traits[T], dst, src []T) error {
	for i := range src {
		c, err := t.cloneSlot(&src[i])
		if err != nil {
			releaseSpan(t, dst[:i])
			return errors.Wrapf(err, "clone element %d", i)
		}
		dst[i] = c
	}
	return nil
}
