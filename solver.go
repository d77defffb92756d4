// Package nlsolve 是参数相关非线性代数方程组 F(p, z) = 0 的分层求解器栈：
// Newton基础求解器、同伦延拓包装器、近邻缓存包装器，三层实现同一套
// 求解器契约，可以任意顺序互相包装。
//
// 典型组合：缓存包装同伦包装基础求解器——
//
//	base, err := newton.NewBase(myOracle, p0, z0)
//	homo := homotopy.NewWrapper(base, myOracle.P())
//	cached := cache.NewWrapper(homo, myOracle.N(), myOracle.P())
//	z := cached.Solve(p1)
//	if !cached.HasConverged() { ... }
package nlsolve

import (
	"nlsolve/cache"
	"nlsolve/homotopy"
	"nlsolve/linalg"
	"nlsolve/newton"
	"nlsolve/oracle"
)

// Solver 是求解器栈的公共能力集合：solve、has_converged、needed_iterations、
// set_tolerance、set_origin、get_origin。三层实现 —— newton.BaseSolver、
// homotopy.Wrapper、cache.Wrapper —— 全部满足这个接口。
type Solver = newton.Solver

// NewBase 构造Newton基础求解器，用 (initialP, initialZ) 作为外推原点。
func NewBase(o oracle.Oracle, initialP, initialZ linalg.Vector) (Solver, error) {
	return newton.NewBase(o, initialP, initialZ)
}

// NewHomotopy 用同伦延拓包装 inner：当 inner 在目标参数点直接求解失败时，
// 沿参数空间直线做几何退避的二分延拓。paramDim 是参数向量维度 P。
func NewHomotopy(inner Solver, paramDim int) Solver {
	return homotopy.NewWrapper(inner, paramDim)
}

// NewCaching 用近邻缓存包装 inner：维护一份已收敛操作点历史，用k-d树加速
// 查找比当前原点更近的热启动种子。unknownDim 是未知量维度 N，paramDim 是
// 参数向量维度 P。
func NewCaching(inner Solver, unknownDim, paramDim int) Solver {
	return cache.NewWrapper(inner, unknownDim, paramDim)
}
