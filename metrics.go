package vector

// Stats contains statistical information about a vector.
type Stats struct {
	Len         int     // Live elements
	Cap         int     // Capacity of the current block in elements
	Grows       int     // Block reallocations since construction
	Relocations int     // Elements moved or cloned across blocks
	Utilization float64 // Ratio of Len to Cap (0.0-1.0)
}

// Stats returns a snapshot of vector statistics. Grows and Relocations
// together show the amortization at work: N appends cost O(log N) grows and
// O(N) relocations in total.
func (v *Vector[T]) Stats() Stats {
	s := Stats{
		Len:         v.size,
		Cap:         v.block.Cap(),
		Grows:       v.grows,
		Relocations: v.relocations,
	}
	if s.Cap > 0 {
		s.Utilization = float64(s.Len) / float64(s.Cap)
	}
	return s
}

// ArenaStats contains statistical information about an arena allocator.
type ArenaStats struct {
	SizeInUse   int     // Bytes currently handed out
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkLen    int     // Default chunk length in elements
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

// SizeInUse returns the total number of bytes currently handed out by the
// arena, zero after Release.
func (a *ArenaAllocator[T]) SizeInUse() int {
	if a.chunks == nil {
		return 0
	}
	sum := 0
	for i := range a.chunks {
		sum += a.chunks[i].offset * a.elemSize
	}
	return sum
}

// NumChunks returns the number of chunks currently held by the arena.
func (a *ArenaAllocator[T]) NumChunks() int {
	if a.chunks == nil {
		return 0
	}
	return len(a.chunks)
}

// Capacity returns the total capacity of all chunks in bytes.
func (a *ArenaAllocator[T]) Capacity() int {
	if a.chunks == nil {
		return 0
	}
	sum := 0
	for i := range a.chunks {
		sum += len(a.chunks[i].slots) * a.elemSize
	}
	return sum
}

// Utilization returns the ratio of bytes handed out to total capacity
// (0.0 to 1.0), zero when the arena has no capacity.
func (a *ArenaAllocator[T]) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// ChunkLen returns the default chunk length in elements.
func (a *ArenaAllocator[T]) ChunkLen() int {
	return a.chunkLen
}

// Stats returns a snapshot of arena statistics.
func (a *ArenaAllocator[T]) Stats() ArenaStats {
	return ArenaStats{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkLen:    a.ChunkLen(),
		Utilization: a.Utilization(),
	}
}
