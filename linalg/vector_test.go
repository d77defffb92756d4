package linalg

import (
	"math"
	"testing"
)

func TestVectorDotProductAndNorm(t *testing.T) {
	a := NewVectorFromData([]float64{1, 2, 3})
	b := NewVectorFromData([]float64{4, 5, 6})

	got := a.DotProduct(b)
	want := 1*4.0 + 2*5.0 + 3*6.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("DotProduct = %v, want %v", got, want)
	}

	if math.Abs(a.Norm2()-14) > 1e-12 {
		t.Errorf("Norm2 = %v, want 14", a.Norm2())
	}
}

func TestVectorAddSubScale(t *testing.T) {
	a := NewVectorFromData([]float64{1, 2, 3})
	b := NewVectorFromData([]float64{1, 1, 1})

	a.Add(b)
	for i, want := range []float64{2, 3, 4} {
		if a.Get(i) != want {
			t.Errorf("after Add, a[%d]=%v, want %v", i, a.Get(i), want)
		}
	}

	a.Sub(b)
	for i, want := range []float64{1, 2, 3} {
		if a.Get(i) != want {
			t.Errorf("after Sub, a[%d]=%v, want %v", i, a.Get(i), want)
		}
	}

	a.Scale(2)
	for i, want := range []float64{2, 4, 6} {
		if a.Get(i) != want {
			t.Errorf("after Scale, a[%d]=%v, want %v", i, a.Get(i), want)
		}
	}
}

func TestVectorIsFinite(t *testing.T) {
	a := NewVectorFromData([]float64{1, 2, 3})
	if !a.IsFinite() {
		t.Fatal("expected finite vector")
	}
	a.Set(1, math.NaN())
	if a.IsFinite() {
		t.Fatal("expected non-finite vector after NaN injection")
	}
}

func TestVectorCopy(t *testing.T) {
	a := NewVectorFromData([]float64{1, 2, 3})
	b := NewVector(3)
	a.Copy(b)
	for i := 0; i < 3; i++ {
		if b.Get(i) != a.Get(i) {
			t.Errorf("b[%d]=%v, want %v", i, b.Get(i), a.Get(i))
		}
	}
}
