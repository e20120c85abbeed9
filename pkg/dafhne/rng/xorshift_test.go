package rng

import "testing"

func TestNewFoldsZeroSeed(t *testing.T) {
	zero := New(0)
	one := New(1)
	if zero.Next() != one.Next() {
		t.Fatalf("seed 0 should behave as seed 1")
	}
}

func TestNextIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("sequence %d diverged: %d != %d", i, va, vb)
		}
	}
}

func TestNextVariesWithSeed(t *testing.T) {
	a := New(1)
	b := New(2)
	if a.Next() == b.Next() {
		t.Fatalf("different seeds produced the same first value")
	}
}

func TestFloat64Range(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		f := s.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}

func TestIntnRange(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		n := s.Intn(5)
		if n < 0 || n >= 5 {
			t.Fatalf("Intn(5) out of range: %v", n)
		}
	}
}

func TestIntnPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for n <= 0")
		}
	}()
	New(1).Intn(0)
}

func TestSignIsPlusOrMinusOne(t *testing.T) {
	s := New(99)
	seenPos, seenNeg := false, false
	for i := 0; i < 200; i++ {
		switch s.Sign() {
		case 1:
			seenPos = true
		case -1:
			seenNeg = true
		default:
			t.Fatalf("Sign returned neither 1 nor -1")
		}
	}
	if !seenPos || !seenNeg {
		t.Fatalf("expected to see both signs over 200 draws, got pos=%v neg=%v", seenPos, seenNeg)
	}
}
