package vector

import "sync"

// SafeVector is a mutex-protected wrapper around Vector for concurrent
// access. All operations are thread-safe but come with the overhead of
// mutex locking. Element access goes through value copies (Get) or the
// Update callback; handing out interior pointers would defeat the lock.
type SafeVector[T any] struct {
	mu sync.Mutex
	v  *Vector[T]
}

// NewSafeVector creates a thread-safe vector on the heap allocator.
func NewSafeVector[T any]() *SafeVector[T] {
	return &SafeVector[T]{v: New[T]()}
}

// NewSafeVectorIn creates a thread-safe vector that obtains storage from
// alloc. The allocator must itself be safe for concurrent use if it is
// shared beyond this vector.
func NewSafeVectorIn[T any](alloc Allocator[T]) *SafeVector[T] {
	return &SafeVector[T]{v: NewIn[T](alloc)}
}

// Len thread-safely returns the number of live elements.
func (s *SafeVector[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Len()
}

// Cap thread-safely returns the capacity in elements.
func (s *SafeVector[T]) Cap() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Cap()
}

// Get thread-safely returns a copy of the i-th element.
func (s *SafeVector[T]) Get(i int) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.v.At(i)
}

// Append thread-safely adds vals to the end.
func (s *SafeVector[T]) Append(vals ...T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Append(vals...)
}

// AppendFunc thread-safely constructs one element in place at the end.
func (s *SafeVector[T]) AppendFunc(build func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.AppendFunc(build)
}

// Insert thread-safely places val at index i.
func (s *SafeVector[T]) Insert(i int, val T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Insert(i, val)
}

// Delete thread-safely removes the element at i.
func (s *SafeVector[T]) Delete(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Delete(i)
}

// Pop thread-safely destroys the last element, reporting whether one
// existed.
func (s *SafeVector[T]) Pop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Pop()
}

// Reserve thread-safely grows capacity to at least n slots.
func (s *SafeVector[T]) Reserve(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Reserve(n)
}

// Resize thread-safely changes Len to n.
func (s *SafeVector[T]) Resize(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Resize(n)
}

// Reset thread-safely destroys all elements while keeping capacity.
func (s *SafeVector[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Reset()
}

// Release thread-safely destroys all elements and returns the block to the
// allocator.
func (s *SafeVector[T]) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Release()
}

// Stats thread-safely returns a snapshot of vector statistics.
func (s *SafeVector[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Stats()
}

// Update runs fn with exclusive access to the underlying vector. Pointers
// obtained from the vector inside fn must not escape it.
func (s *SafeVector[T]) Update(fn func(*Vector[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.v)
}
