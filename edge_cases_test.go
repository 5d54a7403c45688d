package vector_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/pavanmanishd/vector"
)

// TestEdgeCases covers boundary inputs and lifecycle corners through the
// public API only.
func TestEdgeCases(t *testing.T) {
	t.Run("ZeroValueVector", func(t *testing.T) {
		var v vector.Vector[int]
		if v.Len() != 0 || v.Cap() != 0 {
			t.Errorf("zero value: len=%d cap=%d, want 0, 0", v.Len(), v.Cap())
		}
		if err := v.Append(1); err != nil {
			t.Fatalf("Append on zero value error = %v", err)
		}
		if v.Len() != 1 || *v.At(0) != 1 {
			t.Error("zero value vector did not accept an append")
		}
		v.Release()
	})

	t.Run("ZeroAndNegativeSizes", func(t *testing.T) {
		v := vector.New[int]()
		defer v.Release()

		// No-arg append allocates nothing
		if err := v.Append(); err != nil {
			t.Errorf("Append() error = %v", err)
		}
		if v.Cap() != 0 {
			t.Errorf("Cap after empty append = %d, want 0", v.Cap())
		}

		// Reserve never shrinks and tolerates non-positive requests
		if err := v.Reserve(0); err != nil {
			t.Errorf("Reserve(0) error = %v", err)
		}
		if err := v.Reserve(-1); err != nil {
			t.Errorf("Reserve(-1) error = %v", err)
		}

		// Resize to the current length is a no-op
		if err := v.Resize(0); err != nil {
			t.Errorf("Resize(0) error = %v", err)
		}

		// Pop on empty reports false
		if v.Pop() {
			t.Error("Pop on empty vector = true, want false")
		}

		sized, err := vector.NewSized[int](0)
		if err != nil {
			t.Fatalf("NewSized(0) error = %v", err)
		}
		if sized.Len() != 0 || sized.Cap() != 0 {
			t.Errorf("NewSized(0): len=%d cap=%d, want 0, 0", sized.Len(), sized.Cap())
		}
		sized.Release()
	})

	t.Run("LargeReserve", func(t *testing.T) {
		v := vector.New[byte]()
		defer v.Release()

		const want = 1 << 20
		if err := v.Reserve(want); err != nil {
			t.Fatalf("Reserve(%d) error = %v", want, err)
		}
		if v.Cap() < want {
			t.Errorf("Cap = %d, want >= %d", v.Cap(), want)
		}
		if v.Len() != 0 {
			t.Errorf("Len after Reserve = %d, want 0", v.Len())
		}
		if err := v.Append(42); err != nil {
			t.Fatalf("Append after large reserve error = %v", err)
		}
	})

	t.Run("UseAfterRelease", func(t *testing.T) {
		v := vector.New[int]()
		_ = v.Append(1, 2, 3)
		v.Release()

		testPanic := func(name string, fn func()) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s: expected panic after Release()", name)
				}
			}()
			fn()
		}

		testPanic("Append", func() { _ = v.Append(1) })
		testPanic("AppendFunc", func() { _ = v.AppendFunc(func(*int) error { return nil }) })
		testPanic("Insert", func() { _ = v.Insert(0, 1) })
		testPanic("Delete", func() { _ = v.Delete(0) })
		testPanic("Reserve", func() { _ = v.Reserve(10) })
		testPanic("Resize", func() { _ = v.Resize(10) })
		testPanic("Pop", func() { v.Pop() })
		testPanic("Reset", func() { v.Reset() })

		// Reads stay safe and see an empty vector
		if v.Len() != 0 || v.Cap() != 0 {
			t.Errorf("released vector: len=%d cap=%d, want 0, 0", v.Len(), v.Cap())
		}
		if v.Slice() != nil {
			t.Error("released vector: Slice() != nil")
		}
	})

	t.Run("MultipleReleases", func(t *testing.T) {
		v := vector.New[int]()
		_ = v.Append(1)
		v.Release()
		// Multiple releases should be safe
		v.Release()
		v.Release()
	})

	t.Run("ZeroSizeElements", func(t *testing.T) {
		v := vector.New[struct{}]()
		defer v.Release()

		for i := 0; i < 100; i++ {
			if err := v.Append(struct{}{}); err != nil {
				t.Fatalf("Append error = %v", err)
			}
		}
		if v.Len() != 100 {
			t.Errorf("Len = %d, want 100", v.Len())
		}
		if !v.Pop() {
			t.Error("Pop = false, want true")
		}
	})

	t.Run("InsertAndDeleteAtBounds", func(t *testing.T) {
		v := vector.New[int]()
		defer v.Release()

		// Insert at Len is an append; insert at 0 shifts everything
		_ = v.Insert(0, 20)
		_ = v.Insert(0, 10)
		_ = v.Insert(2, 30)
		got := v.Slice()
		for i, want := range []int{10, 20, 30} {
			if got[i] != want {
				t.Errorf("after inserts: [%d] = %d, want %d", i, got[i], want)
			}
		}

		_ = v.Delete(0)
		_ = v.Delete(v.Len() - 1)
		if v.Len() != 1 || *v.At(0) != 20 {
			t.Errorf("after deletes: %v, want [20]", v.Slice())
		}
	})
}

// TestMemoryCorruption checks that vectors sharing one arena never step on
// each other's blocks.
func TestMemoryCorruption(t *testing.T) {
	a := vector.NewArenaAllocator[int](1024)
	defer a.Release()

	vs := make([]*vector.Vector[int], 10)
	for i := range vs {
		vs[i] = vector.NewIn[int](a)
	}

	// Interleave appends so growth blocks of different vectors alternate
	// within the arena chunks.
	for j := 0; j < 50; j++ {
		for i, v := range vs {
			if err := v.Append(i*1000 + j); err != nil {
				t.Fatalf("vector %d Append(%d) error = %v", i, j, err)
			}
		}
	}

	// Verify patterns are intact
	for i, v := range vs {
		if v.Len() != 50 {
			t.Fatalf("vector %d Len = %d, want 50", i, v.Len())
		}
		for j := 0; j < 50; j++ {
			if got := *v.At(j); got != i*1000+j {
				t.Errorf("Memory corruption detected at vector %d index %d: got %d, want %d", i, j, got, i*1000+j)
			}
		}
	}
}

// TestTypeSpecificVectors exercises element kinds with different shapes.
func TestTypeSpecificVectors(t *testing.T) {
	t.Run("BasicTypes", func(t *testing.T) {
		vb := vector.New[bool]()
		vf := vector.New[float64]()
		defer vb.Release()
		defer vf.Release()

		_ = vb.Resize(4)
		_ = vf.Resize(4)
		for i := 0; i < 4; i++ {
			if *vb.At(i) != false || *vf.At(i) != 0 {
				t.Error("resized elements not zero-initialized")
			}
		}
		*vb.At(2) = true
		*vf.At(2) = 3.14159
		if !*vb.At(2) || *vf.At(2) != 3.14159 {
			t.Error("could not write to resized elements")
		}
	})

	t.Run("Strings", func(t *testing.T) {
		v := vector.New[string]()
		defer v.Release()

		_ = v.Append("alpha", "beta")
		_ = v.Insert(1, "between")
		if got := v.Slice(); got[0] != "alpha" || got[1] != "between" || got[2] != "beta" {
			t.Errorf("contents = %v", got)
		}
	})

	t.Run("ComplexStructs", func(t *testing.T) {
		type payload struct {
			A int64
			B string
			C []int
			D map[string]int
			E *int
		}

		v := vector.New[payload]()
		defer v.Release()

		_ = v.Resize(1)
		p := v.At(0)
		if p.A != 0 || p.B != "" || p.C != nil || p.D != nil || p.E != nil {
			t.Error("struct element not properly zero-initialized")
		}

		p.A = 100
		p.B = "test"
		p.C = []int{1, 2, 3}
		p.D = map[string]int{"key": 42}
		if p.A != 100 || p.B != "test" || len(p.C) != 3 || p.D["key"] != 42 {
			t.Error("could not initialize struct element in place")
		}
	})

	t.Run("SliceElements", func(t *testing.T) {
		v := vector.New[[]int]()
		defer v.Release()

		_ = v.Append([]int{1}, []int{2, 2}, []int{3, 3, 3})
		_ = v.Delete(1)
		if v.Len() != 2 || len(*v.At(1)) != 3 {
			t.Errorf("contents = %v", v.Slice())
		}
	})
}

// TestResetBehavior verifies Reset keeps capacity for refills.
func TestResetBehavior(t *testing.T) {
	v := vector.New[int]()
	defer v.Release()

	for i := 0; i < 100; i++ {
		_ = v.Append(i)
	}
	capBefore := v.Cap()
	growsBefore := v.Stats().Grows

	v.Reset()
	if v.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", v.Len())
	}
	if v.Cap() != capBefore {
		t.Errorf("Cap after Reset = %d, want %d", v.Cap(), capBefore)
	}

	// Refilling within the kept capacity must not grow
	for i := 0; i < 100; i++ {
		_ = v.Append(i)
	}
	if v.Stats().Grows != growsBefore {
		t.Errorf("Grows after refill = %d, want %d", v.Stats().Grows, growsBefore)
	}
}

// TestMemoryLeaks checks for potential memory leaks
func TestMemoryLeaks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping memory leak test in short mode")
	}

	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	// Create and destroy many vectors
	for i := 0; i < 1000; i++ {
		v := vector.New[int64]()
		for j := int64(0); j < 100; j++ {
			_ = v.Append(j)
		}
		v.Release()
	}

	runtime.GC()
	runtime.ReadMemStats(&m2)

	// Check if memory usage increased significantly
	if m2.Alloc > m1.Alloc*2 {
		t.Errorf("Potential memory leak: before=%d, after=%d", m1.Alloc, m2.Alloc)
	}
}

// TestConcurrencyStress performs stress testing on SafeVector
func TestConcurrencyStress(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	sv := vector.NewSafeVector[int]()
	defer sv.Release()

	const numGoroutines = 8
	const numOpsPerGoroutine = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				switch j % 5 {
				case 0, 1:
					_ = sv.Append(id)
				case 2:
					sv.Pop()
				case 3:
					sv.Update(func(v *vector.Vector[int]) {
						if v.Len() > 0 {
							*v.At(0)++
						}
					})
				case 4:
					_ = sv.Stats()
				}
			}
		}(i)
	}
	wg.Wait()

	// The vector must come out coherent
	s := sv.Stats()
	if s.Len < 0 || s.Len > s.Cap {
		t.Errorf("incoherent stats after stress: %+v", s)
	}
}
