// Package vector implements a contiguous growable array (vector) built on
// manually managed storage blocks.
//
// # Overview
//
// A Vector keeps its elements in one contiguous block obtained from an
// Allocator and tracks which prefix of the block is alive. Separating block
// ownership (RawBlock) from element lifetime (Vector) gives precise control
// over construction, destruction, and relocation. This is particularly
// useful for:
//
//   - Element types that own resources and need a release hook
//   - Request-scoped collections carved out of an arena
//   - Reducing garbage collection pressure through block recycling
//   - Workloads that want visibility into growth and relocation costs
//
// # Basic Usage
//
//	v := vector.New[int]()
//	defer v.Release() // Clean up when done
//
//	// Append and insert
//	_ = v.Append(1, 2, 3)
//	_ = v.Insert(1, 42) // 1, 42, 2, 3
//
//	// Indexed access, in place
//	*v.At(0) = 10
//
//	// Iterate
//	for i, x := range v.All() {
//		fmt.Println(i, x)
//	}
//
// # Element Capabilities
//
// Element types customize their lifecycle by implementing any of four
// single-method interfaces, checked once per type:
//
//   - Cloner: deep or failing copies; used by Clone and CopyFrom
//   - Mover: relocation by ownership handoff that deadens the source
//   - Releaser: destruction hook, called once per destroyed element
//   - Initializer: value construction beyond the zero value, may fail
//
// Plain types need none of them: they copy by assignment, relocate by
// handoff, construct to the zero value, and destroy by wiping the slot.
//
// # Relocation Policy
//
// When a vector outgrows its block it relocates live elements into a fresh
// one. Types implementing Mover, and types implementing neither Mover nor
// Cloner, relocate by handoff, which cannot fail. Types implementing Cloner
// without Mover are treated as address-sensitive: relocation clones every
// element and destroys the originals only after all clones succeeded, so a
// failed growth leaves the vector exactly as it was. Types with Mover and
// no Cloner are move-only; copying them reports ErrNotCloneable.
//
// # Allocators
//
// Blocks come from pluggable allocators: HeapAllocator (the default),
// ArenaAllocator for bulk-reclaimed request-scoped storage, PoolAllocator
// for recycling blocks through size classes, LimitedAllocator for byte
// budgets, and InstrumentedAllocator for prometheus metrics and logging.
//
//	arena := vector.NewArenaAllocator[Row](0) // Use default chunk size
//	defer arena.Release()
//
//	rows := vector.NewIn[Row](arena)
//	_ = rows.Append(Row{ID: 1})
//
// # Thread Safety
//
// The basic Vector type is not thread-safe. For concurrent access, use
// SafeVector:
//
//	sv := vector.NewSafeVector[int]()
//	_ = sv.Append(1)
//	n := sv.Len()
//
// # Error Handling
//
// Operations that may allocate or run element hooks return errors; failed
// operations leave the vector in a documented state, usually untouched.
// Allocation failures wrap ErrOutOfMemory and copies of move-only types
// wrap ErrNotCloneable; match both with errors.Is. Out-of-range indexes,
// negative sizes, and use after Release are programming errors and panic.
//
// # Performance Characteristics
//
//   - Append: O(1) amortized, doubling growth
//   - Insert/Delete at i: O(Len-i) shifts
//   - Indexed access: O(1)
//   - Reset: O(Len), Release: O(Len)
//
// # Metrics and Monitoring
//
// Vectors count their own work and allocators can report to prometheus:
//
//	stats := v.Stats()
//	fmt.Printf("Utilization: %.2f%%\n", stats.Utilization*100)
//	fmt.Printf("Grows: %d, relocations: %d\n", stats.Grows, stats.Relocations)
package vector
