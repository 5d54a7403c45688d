package vector

import "github.com/pkg/errors"

// Element types used across the test files, one per capability mix.

var errPoisoned = errors.New("poisoned element")

// point has no capabilities: assignment copies, handoff relocation, zero
// value construction, wipe destruction.
type point struct {
	x, y int
}

// resource implements Releaser only. Release counts into a test-owned
// counter and tolerates the zero value.
type resource struct {
	id       int
	releases *int
}

func (r resource) Release() {
	if r.releases != nil {
		*r.releases++
	}
}

// handle is move-only: Mover and Releaser, no Cloner. Copying a vector of
// handles must fail.
type handle struct {
	fd       int
	moves    *int
	releases *int
}

func (h *handle) Move() handle {
	out := *h
	*h = handle{}
	if out.moves != nil {
		*out.moves++
	}
	return out
}

func (h *handle) Release() {
	if h.releases != nil {
		*h.releases++
	}
}

// record is clone-relocating: Cloner and Releaser, no Mover. A poisoned
// record fails to clone, for exercising failure paths.
type record struct {
	id       int
	poison   bool
	clones   *int
	releases *int
}

func (r record) Clone() (record, error) {
	if r.poison {
		return record{}, errPoisoned
	}
	if r.clones != nil {
		*r.clones++
	}
	return r, nil
}

func (r record) Release() {
	if r.releases != nil {
		*r.releases++
	}
}

// versioned implements both Mover and Cloner; relocation must prefer Move.
type versioned struct {
	n      int
	moves  *int
	clones *int
}

func (v *versioned) Move() versioned {
	out := *v
	*v = versioned{}
	if out.moves != nil {
		*out.moves++
	}
	return out
}

func (v *versioned) Clone() (versioned, error) {
	if v.clones != nil {
		*v.clones++
	}
	return *v, nil
}

// session implements Initializer and Releaser. Init behavior is steered by
// package-level state so it can run on zeroed slots; tests must call
// resetSessionState.
var (
	liveSessions      int
	sessionInitBudget = -1 // >= 0 means that many Inits succeed before one fails
	errInitBudget     = errors.New("init budget exhausted")
)

type session struct {
	token string
}

func (s *session) Init() error {
	if sessionInitBudget == 0 {
		return errInitBudget
	}
	if sessionInitBudget > 0 {
		sessionInitBudget--
	}
	s.token = "ready"
	liveSessions++
	return nil
}

func (s *session) Release() {
	if s.token != "" {
		liveSessions--
	}
}

func resetSessionState() {
	liveSessions = 0
	sessionInitBudget = -1
}

// countingAllocator wraps the heap allocator and counts block traffic, for
// leak assertions.
type countingAllocator[T any] struct {
	heap   HeapAllocator[T]
	allocs int
	frees  int
}

func (c *countingAllocator[T]) Allocate(n int) ([]T, error) {
	block, err := c.heap.Allocate(n)
	if err == nil && block != nil {
		c.allocs++
	}
	return block, err
}

func (c *countingAllocator[T]) Free(block []T) {
	if len(block) == 0 {
		return
	}
	c.frees++
	c.heap.Free(block)
}

// failingAllocator serves budget requests and then fails every one.
type failingAllocator[T any] struct {
	heap   HeapAllocator[T]
	budget int
}

func (f *failingAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	if f.budget == 0 {
		return nil, ErrOutOfMemory
	}
	f.budget--
	return f.heap.Allocate(n)
}

func (f *failingAllocator[T]) Free([]T) {}
