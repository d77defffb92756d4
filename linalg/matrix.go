package linalg

import (
	"fmt"
	"math"
)

// Matrix 稠密矩阵接口，行主序存储，供雅可比 J（N×N）与参数雅可比 Jp（N×P）使用。
type Matrix interface {
	// Rows 返回行数
	Rows() int
	// Cols 返回列数
	Cols() int
	// Get 获取指定行列的元素值
	Get(row, col int) float64
	// Set 设置指定行列的元素值
	Set(row, col int, v float64)
	// Increment 累加指定行列的元素值
	Increment(row, col int, v float64)
	// Zero 清空矩阵为零矩阵
	Zero()
	// Copy 将自身值复制到 dst
	Copy(dst Matrix)
	// MulVec 矩阵向量乘法 A·x，结果写入 out（长度须为 Rows()）
	MulVec(x Vector, out Vector)
	// IsFinite 检查所有元素是否有限
	IsFinite() bool
	// String 字符串表示
	String() string
}

// denseMatrix 行主序稠密矩阵实现
type denseMatrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix 创建 rows×cols 的零矩阵
func NewMatrix(rows, cols int) Matrix {
	return &denseMatrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

func (m *denseMatrix) Rows() int { return m.rows }
func (m *denseMatrix) Cols() int { return m.cols }

func (m *denseMatrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("linalg: matrix index out of range: (%d,%d) for %dx%d", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

func (m *denseMatrix) Get(row, col int) float64 { return m.data[m.index(row, col)] }

func (m *denseMatrix) Set(row, col int, v float64) { m.data[m.index(row, col)] = v }

func (m *denseMatrix) Increment(row, col int, v float64) {
	idx := m.index(row, col)
	m.data[idx] += v
}

func (m *denseMatrix) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

func (m *denseMatrix) Copy(dst Matrix) {
	if dst.Rows() != m.rows || dst.Cols() != m.cols {
		panic(fmt.Sprintf("linalg: matrix copy dimension mismatch: %dx%d vs %dx%d", m.rows, m.cols, dst.Rows(), dst.Cols()))
	}
	if other, ok := dst.(*denseMatrix); ok {
		copy(other.data, m.data)
		return
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			dst.Set(i, j, m.Get(i, j))
		}
	}
}

func (m *denseMatrix) MulVec(x Vector, out Vector) {
	if x.Length() != m.cols || out.Length() != m.rows {
		panic("linalg: matrix-vector multiply dimension mismatch")
	}
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		base := i * m.cols
		for j := 0; j < m.cols; j++ {
			sum += m.data[base+j] * x.Get(j)
		}
		out.Set(i, sum)
	}
}

func (m *denseMatrix) IsFinite() bool {
	for _, v := range m.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (m *denseMatrix) String() string {
	s := ""
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			s += fmt.Sprintf("%10.4g ", m.Get(i, j))
		}
		s += "\n"
	}
	return s
}
