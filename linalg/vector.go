package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
)

// Vector 稠密向量接口，供Oracle缓冲区、求解器迭代量与历史矩阵列共用。
type Vector interface {
	// Length 返回向量长度
	Length() int
	// Get 获取指定位置的元素值
	Get(i int) float64
	// Set 设置指定位置的元素值
	Set(i int, v float64)
	// Increment 累加指定位置的元素值
	Increment(i int, v float64)
	// Zero 清零
	Zero()
	// Copy 将自身值复制到 dst
	Copy(dst Vector)
	// ToDense 返回底层数据的副本
	ToDense() []float64
	// DotProduct 计算与 other 的点积
	DotProduct(other Vector) float64
	// Norm2 返回 ‖v‖²（平方欧氏范数）
	Norm2() float64
	// Scale 原地缩放
	Scale(scalar float64)
	// Add 原地累加 other
	Add(other Vector)
	// Sub 原地减去 other
	Sub(other Vector)
	// IsFinite 检查所有分量是否有限（非NaN、非Inf）
	IsFinite() bool
	// String 字符串表示
	String() string
}

// denseVector 稠密向量实现
type denseVector struct {
	data []float64
}

// NewVector 创建长度为 n 的零向量
func NewVector(n int) Vector {
	return &denseVector{data: make([]float64, n)}
}

// NewVectorFromData 从现有切片创建向量（不复制，调用方不应再持有该切片）
func NewVectorFromData(data []float64) Vector {
	return &denseVector{data: data}
}

func (v *denseVector) Length() int { return len(v.data) }

func (v *denseVector) Get(i int) float64 { return v.data[i] }

func (v *denseVector) Set(i int, val float64) { v.data[i] = val }

func (v *denseVector) Increment(i int, val float64) { v.data[i] += val }

func (v *denseVector) Zero() {
	for i := range v.data {
		v.data[i] = 0
	}
}

func (v *denseVector) Copy(dst Vector) {
	if len(v.data) != dst.Length() {
		panic(fmt.Sprintf("linalg: vector copy dimension mismatch: %d vs %d", len(v.data), dst.Length()))
	}
	if other, ok := dst.(*denseVector); ok {
		copy(other.data, v.data)
		return
	}
	for i, val := range v.data {
		dst.Set(i, val)
	}
}

func (v *denseVector) ToDense() []float64 {
	out := make([]float64, len(v.data))
	copy(out, v.data)
	return out
}

// blasVec 构造指向底层数据的 blas64.Vector 视图（Inc=1）
func blasVec(data []float64) blas64.Vector {
	return blas64.Vector{N: len(data), Data: data, Inc: 1}
}

func (v *denseVector) DotProduct(other Vector) float64 {
	o, ok := other.(*denseVector)
	if !ok || len(o.data) != len(v.data) {
		// 回退到逐元素累加，兼容非稠密实现或维度不一致时由调用方处理的情形
		if other.Length() != len(v.data) {
			panic("linalg: vector dot dimension mismatch")
		}
		sum := 0.0
		for i, val := range v.data {
			sum += val * other.Get(i)
		}
		return sum
	}
	return blas64.Dot(blasVec(v.data), blasVec(o.data))
}

func (v *denseVector) Norm2() float64 {
	return v.DotProduct(v)
}

func (v *denseVector) Scale(scalar float64) {
	for i := range v.data {
		v.data[i] *= scalar
	}
}

func (v *denseVector) Add(other Vector) {
	if other.Length() != len(v.data) {
		panic("linalg: vector add dimension mismatch")
	}
	for i := range v.data {
		v.data[i] += other.Get(i)
	}
}

func (v *denseVector) Sub(other Vector) {
	if other.Length() != len(v.data) {
		panic("linalg: vector sub dimension mismatch")
	}
	for i := range v.data {
		v.data[i] -= other.Get(i)
	}
}

func (v *denseVector) IsFinite() bool {
	for _, val := range v.data {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return false
		}
	}
	return true
}

func (v *denseVector) String() string {
	return fmt.Sprintf("%v", v.data)
}
