// Package homotopy 实现同伦延拓包装器：当内层求解器在目标参数点直接求解
// 失败时，沿参数空间中从上次已知良好操作点到目标点的直线二分退避，
// 每一次成功的中间解都把内层求解器的外推原点向目标推进一步。
package homotopy

import (
	"nlsolve/linalg"
	"nlsolve/newton"
)

// defaultMaxDepth 限制二分深度，避免 a 在困难区域附近无止尽地逼近 0。
// 朴素的二分终止条件（a 数值归零）没有原则性的上界。上限计的是二分循环中
// 内层求解的总次数（成功与失败都计）；若每次都失败，64 次后 a 已小于 2⁻⁶⁴，
// 足够判定停滞。
const defaultMaxDepth = 64

// AttemptTracer 接收每次二分尝试的插值系数 a，供离线诊断使用。
// diagnostics.HomotopyTrace 满足此接口。
type AttemptTracer interface {
	Record(a float64)
}

// Wrapper 用同一个求解器接口包装任意内层求解器。
type Wrapper struct {
	inner    newton.Solver
	p        int
	maxDepth int

	converged bool
	iters     int

	pStart linalg.Vector // 二分起点（内层求解器求解失败时的原点参数）
	pa     linalg.Vector // p(a) 的临时缓冲区

	Trace AttemptTracer // 可选；非nil时记录每次尝试的 a
}

// NewWrapper 用维度为 p 的参数向量包装 inner。
func NewWrapper(inner newton.Solver, p int) *Wrapper {
	return &Wrapper{
		inner:    inner,
		p:        p,
		maxDepth: defaultMaxDepth,
		pStart:   linalg.NewVector(p),
		pa:       linalg.NewVector(p),
	}
}

// SetMaxDepth 覆盖默认的二分深度上限。
func (w *Wrapper) SetMaxDepth(depth int) { w.maxDepth = depth }

func (w *Wrapper) HasConverged() bool     { return w.converged }
func (w *Wrapper) NeededIterations() int  { return w.iters }
func (w *Wrapper) SetTolerance(t float64) { w.inner.SetTolerance(t) }
func (w *Wrapper) SetOrigin(p, z linalg.Vector) error {
	return w.inner.SetOrigin(p, z)
}
func (w *Wrapper) GetOrigin() (linalg.Vector, linalg.Vector) {
	return w.inner.GetOrigin()
}

// Solve 先尝试直接求解 pTarget；失败后沿 p_start→pTarget 的直线做几何
// 退避的二分延拓，每个已收敛的中间点都成为内层求解器的新外推原点。
func (w *Wrapper) Solve(pTarget linalg.Vector) linalg.Vector {
	z := w.inner.Solve(pTarget)
	w.converged = w.inner.HasConverged()
	w.iters = w.inner.NeededIterations()
	if w.converged {
		return z
	}

	startP, _ := w.inner.GetOrigin()
	startP.Copy(w.pStart)

	bestA := 0.0
	a := 0.5
	depth := 0
	for bestA < 1 && a > 0 && depth < w.maxDepth {
		if w.Trace != nil {
			w.Trace.Record(a)
		}
		computeAt(w.pStart, pTarget, a, w.pa)
		z = w.inner.Solve(w.pa)
		w.converged = w.inner.HasConverged()
		w.iters = w.inner.NeededIterations()
		depth++

		if w.converged {
			bestA = a
			a = 1.0
		} else {
			a = (a + bestA) / 2
		}
	}
	return z
}

// computeAt 写入 p(a) = (1−a)·pStart + a·pTarget 到 out。
func computeAt(pStart, pTarget linalg.Vector, a float64, out linalg.Vector) {
	for i := 0; i < out.Length(); i++ {
		out.Set(i, (1-a)*pStart.Get(i)+a*pTarget.Get(i))
	}
}
