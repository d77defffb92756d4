package linalg

import (
	"errors"
	"math"
)

// singularThreshold 主元绝对值低于该阈值视为矩阵奇异。
const singularThreshold = 1e-16

// LU 稠密矩阵LU分解接口（部分主元法，A=PLU）。
type LU interface {
	// Dim 返回矩阵维度 n
	Dim() int
	// Decompose 对 a（n×n）执行LU分解，原地覆盖内部 L/U 缓冲区。
	// 若主元绝对值小于 singularThreshold 则返回错误（矩阵奇异）。
	Decompose(a Matrix) error
	// Solve 求解 A·x = b；b、x 均为本包稠密向量时复用内部缓冲区，不分配内存。
	Solve(b, x Vector) error
	// SolveMatrix 对矩阵 b 的每一列求解 A·x = b[:,j]，结果写入 x 的对应列。
	// 可用一次分解求出 J⁻¹·Jp（Jp 为 N×P）；newton 的热启动外推不调用它，
	// 而是对向量 last_Jp·(p−last_p) 调用 Solve。
	SolveMatrix(b, x Matrix) error
}

// luDense 部分主元稠密LU分解器。
//
// 求解:
//
//	P - 置换向量（P[i] = 分解后第i行对应的原始行索引）
//	L - 单位下三角矩阵（严格下三角部分存储消元因子）
//	U - 上三角矩阵（对 a 原地消元得到）
type luDense struct {
	n int
	l []float64 // n*n，严格下三角
	u []float64 // n*n，上三角（含对角线）
	p []int
	y []float64 // 前向替换暂存
}

// NewLU 创建维度为 n 的稠密LU分解器。
func NewLU(n int) (LU, error) {
	if n < 1 {
		return nil, errors.New("linalg: lu dimension must be positive")
	}
	return &luDense{
		n: n,
		l: make([]float64, n*n),
		u: make([]float64, n*n),
		p: make([]int, n),
		y: make([]float64, n),
	}, nil
}

func (lu *luDense) Dim() int { return lu.n }

func (lu *luDense) at(buf []float64, row, col int) float64 { return buf[row*lu.n+col] }
func (lu *luDense) set(buf []float64, row, col int, v float64) { buf[row*lu.n+col] = v }

// Decompose 执行高斯消元+部分主元分解，逐列选主元、交换、消元。
func (lu *luDense) Decompose(a Matrix) error {
	n := lu.n
	if a.Rows() != n || a.Cols() != n {
		return errors.New("linalg: lu decompose: matrix dimension mismatch")
	}
	for i := 0; i < n*n; i++ {
		lu.l[i] = 0
		lu.u[i] = 0
	}
	for i := 0; i < n; i++ {
		lu.p[i] = i
		lu.set(lu.l, i, i, 1.0)
		for j := 0; j < n; j++ {
			lu.set(lu.u, i, j, a.Get(i, j))
		}
	}

	for k := 0; k < n; k++ {
		maxRow := k
		maxAbs := math.Abs(lu.at(lu.u, k, k))
		for i := k + 1; i < n; i++ {
			if v := math.Abs(lu.at(lu.u, i, k)); v > maxAbs {
				maxAbs = v
				maxRow = i
			}
		}
		if maxAbs < singularThreshold {
			return errors.New("linalg: lu decompose: matrix is singular or nearly singular")
		}
		if maxRow != k {
			for j := 0; j < n; j++ {
				uk, um := lu.at(lu.u, k, j), lu.at(lu.u, maxRow, j)
				lu.set(lu.u, k, j, um)
				lu.set(lu.u, maxRow, j, uk)
			}
			for j := 0; j < k; j++ {
				lk, lm := lu.at(lu.l, k, j), lu.at(lu.l, maxRow, j)
				lu.set(lu.l, k, j, lm)
				lu.set(lu.l, maxRow, j, lk)
			}
			lu.p[k], lu.p[maxRow] = lu.p[maxRow], lu.p[k]
		}

		pivot := lu.at(lu.u, k, k)
		for i := k + 1; i < n; i++ {
			factor := lu.at(lu.u, i, k) / pivot
			lu.set(lu.l, i, k, factor)
			lu.set(lu.u, i, k, 0.0)
			for j := k + 1; j < n; j++ {
				lu.set(lu.u, i, j, lu.at(lu.u, i, j)-factor*lu.at(lu.u, k, j))
			}
		}
	}
	return nil
}

// solveVec 前向/后向替换求解，直接写入输出切片 out。
func (lu *luDense) solveVec(b []float64, out []float64) error {
	n := lu.n
	if len(b) != n || len(out) != n {
		return errors.New("linalg: lu solve: vector dimension mismatch")
	}
	for i := 0; i < n; i++ {
		sum := b[lu.p[i]]
		for j := 0; j < i; j++ {
			sum -= lu.at(lu.l, i, j) * lu.y[j]
		}
		lu.y[i] = sum
	}
	for i := n - 1; i >= 0; i-- {
		sum := lu.y[i]
		for j := i + 1; j < n; j++ {
			sum -= lu.at(lu.u, i, j) * out[j]
		}
		diag := lu.at(lu.u, i, i)
		if math.Abs(diag) < singularThreshold {
			return errors.New("linalg: lu solve: division by zero (U diagonal is zero)")
		}
		out[i] = sum / diag
	}
	return nil
}

func (lu *luDense) Solve(b, x Vector) error {
	if b.Length() != lu.n || x.Length() != lu.n {
		return errors.New("linalg: lu solve: vector dimension mismatch")
	}
	// 稠密向量直接在底层切片上求解（前向替换先读完 b，b 与 x 可为同一向量）。
	if bv, ok := b.(*denseVector); ok {
		if xv, ok := x.(*denseVector); ok {
			return lu.solveVec(bv.data, xv.data)
		}
	}
	bd := b.ToDense()
	out := make([]float64, lu.n)
	if err := lu.solveVec(bd, out); err != nil {
		return err
	}
	for i, v := range out {
		x.Set(i, v)
	}
	return nil
}

// SolveMatrix 逐列复用同一次分解求解 A·X = B，避免对 Jp 的每一列重复分解。
func (lu *luDense) SolveMatrix(b, x Matrix) error {
	n := lu.n
	if b.Rows() != n || x.Rows() != n || b.Cols() != x.Cols() {
		return errors.New("linalg: lu solve matrix: dimension mismatch")
	}
	cols := b.Cols()
	col := make([]float64, n)
	out := make([]float64, n)
	for c := 0; c < cols; c++ {
		for i := 0; i < n; i++ {
			col[i] = b.Get(i, c)
		}
		if err := lu.solveVec(col, out); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			x.Set(i, c, out[i])
		}
	}
	return nil
}
