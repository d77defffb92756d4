package linalg

import (
	"math"
	"math/rand"
	"testing"
)

// TestLUSolve 验证分解+求解的正确性：Ax=b。
// A = [[2,3,1],[1,2,3],[3,1,2]], b = [9,6,8]，预期解 x = [35/18, 29/18, 5/18]。
func TestLUSolve(t *testing.T) {
	a := NewMatrix(3, 3)
	rows := [][]float64{{2, 3, 1}, {1, 2, 3}, {3, 1, 2}}
	for i, row := range rows {
		for j, v := range row {
			a.Set(i, j, v)
		}
	}
	b := NewVectorFromData([]float64{9, 6, 8})

	lu, err := NewLU(3)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	if err := lu.Decompose(a); err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	x := NewVector(3)
	if err := lu.Solve(b, x); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	expected := []float64{35.0 / 18.0, 29.0 / 18.0, 5.0 / 18.0}
	for i, want := range expected {
		if math.Abs(x.Get(i)-want) > 1e-9 {
			t.Errorf("x[%d] = %v, want %v", i, x.Get(i), want)
		}
	}
}

// TestLUSingular 验证奇异矩阵（全零行）被正确检出。
func TestLUSingular(t *testing.T) {
	a := NewMatrix(3, 3)
	rows := [][]float64{{1, 2, 3}, {4, 5, 6}, {0, 0, 0}}
	for i, row := range rows {
		for j, v := range row {
			a.Set(i, j, v)
		}
	}
	lu, err := NewLU(3)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	if err := lu.Decompose(a); err == nil {
		t.Fatal("Decompose should have failed for a singular matrix")
	}
}

// TestLUSolveMatrixMatchesSolve 验证 SolveMatrix 逐列结果与单独调用 Solve
// 对每一列分别求解的结果一致（用于 J⁻¹·Jp 的一次性分解求解）。
func TestLUSolveMatrixMatchesSolve(t *testing.T) {
	n, p := 4, 3
	a := NewMatrix(n, n)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rng.Float64())
		}
		a.Set(i, i, a.Get(i, i)+float64(n)) // 保证非奇异
	}
	rhs := NewMatrix(n, p)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			rhs.Set(i, j, rng.Float64())
		}
	}

	lu, err := NewLU(n)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	if err := lu.Decompose(a); err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	batched := NewMatrix(n, p)
	if err := lu.SolveMatrix(rhs, batched); err != nil {
		t.Fatalf("SolveMatrix failed: %v", err)
	}

	for j := 0; j < p; j++ {
		col := NewVector(n)
		colOut := NewVector(n)
		for i := 0; i < n; i++ {
			col.Set(i, rhs.Get(i, j))
		}
		if err := lu.Solve(col, colOut); err != nil {
			t.Fatalf("Solve column %d failed: %v", j, err)
		}
		for i := 0; i < n; i++ {
			if math.Abs(batched.Get(i, j)-colOut.Get(i)) > 1e-9 {
				t.Errorf("batched[%d,%d]=%v, want %v", i, j, batched.Get(i, j), colOut.Get(i))
			}
		}
	}
}
