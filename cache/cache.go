// Package cache 实现近邻缓存包装器：维护一份不断增长的历史已收敛操作点
// (p, z)，用k-d树对历史前缀建索引、对尾部未索引的新增点做线性扫描，为
// 内层求解器挑选比当前外推原点更近的热启动种子。
//
// 历史矩阵按点整体 append 增长（借鉴 maths/data.go 的 AppendInPlace/Resize
// 摊还扩容思路，这里直接复用 Go 切片 append 的摊还扩容语义，不必手写容量
// 翻倍逻辑）。
package cache

import (
	"nlsolve/kdtree"
	"nlsolve/linalg"
	"nlsolve/newton"
)

const (
	// defaultGateIters 是插入历史前要求的最少迭代次数（超过此数才插入）。
	defaultGateIters = 5
)

// Wrapper 用近邻缓存包装任意内层求解器。
type Wrapper struct {
	inner newton.Solver
	n, p  int

	gateIters int

	ps []float64 // M个长度为p的参数点，逐点连续存储
	zs []float64 // M个长度为n的解点，逐点连续存储
	m  int

	tree          *kdtree.Tree
	indexedM      int // 已建索引的前缀长度 M'
	newCount      int
	newCountLimit int

	converged bool
	iters     int

	pCol linalg.Vector // 安装原点时复用的缓冲区
	zCol linalg.Vector
}

// historyPoints 把 Wrapper 已建索引的前缀适配为 kdtree.Points。
type historyPoints struct{ w *Wrapper }

func (hp historyPoints) Len() int { return hp.w.indexedM }
func (hp historyPoints) Dim() int { return hp.w.p }
func (hp historyPoints) Coord(i, d int) float64 { return hp.w.ps[i*hp.w.p+d] }

// NewWrapper 用 inner 当前的原点作为历史中的第一个点（M=1）构造缓存包装器。
func NewWrapper(inner newton.Solver, n, p int) *Wrapper {
	originP, originZ := inner.GetOrigin()
	w := &Wrapper{
		inner:     inner,
		n:         n,
		p:         p,
		gateIters: defaultGateIters,
		pCol:      linalg.NewVector(p),
		zCol:      linalg.NewVector(n),
	}
	w.appendPoint(originP, originZ)
	w.rebuild()
	return w
}

// SetGateIters 覆盖插入历史所需的最少迭代次数阈值。
func (w *Wrapper) SetGateIters(iters int) { w.gateIters = iters }

func (w *Wrapper) HasConverged() bool     { return w.converged }
func (w *Wrapper) NeededIterations() int  { return w.iters }
func (w *Wrapper) SetTolerance(t float64) { w.inner.SetTolerance(t) }
func (w *Wrapper) SetOrigin(p, z linalg.Vector) error {
	return w.inner.SetOrigin(p, z)
}
func (w *Wrapper) GetOrigin() (linalg.Vector, linalg.Vector) {
	return w.inner.GetOrigin()
}

func (w *Wrapper) appendPoint(p, z linalg.Vector) {
	w.ps = append(w.ps, p.ToDense()...)
	w.zs = append(w.zs, z.ToDense()...)
	w.m++
}

// rebuild 在全部 M 个历史点上重建k-d树，清空未索引后缀计数，并把
// new_count_limit 设为当前列数的两倍。
func (w *Wrapper) rebuild() {
	w.indexedM = w.m
	w.tree = kdtree.New(historyPoints{w})
	w.newCount = 0
	w.newCountLimit = 2 * w.m
}

func (w *Wrapper) pointAt(j int) []float64 { return w.ps[j*w.p : (j+1)*w.p] }
func (w *Wrapper) solutionAt(j int) []float64 { return w.zs[j*w.n : (j+1)*w.n] }

func (w *Wrapper) loadColumn(j int, pOut, zOut linalg.Vector) {
	pp := w.pointAt(j)
	for d, v := range pp {
		pOut.Set(d, v)
	}
	zz := w.solutionAt(j)
	for d, v := range zz {
		zOut.Set(d, v)
	}
}

func squaredDistToVector(query linalg.Vector, other linalg.Vector) float64 {
	sum := 0.0
	for i := 0; i < query.Length(); i++ {
		diff := query.Get(i) - other.Get(i)
		sum += diff * diff
	}
	return sum
}

func squaredDistToColumn(query []float64, column []float64) float64 {
	sum := 0.0
	for i, qv := range query {
		diff := qv - column[i]
		sum += diff * diff
	}
	return sum
}

// Solve 先在历史中寻找比当前原点更近的已收敛操作点并安装为新原点，再委托
// 给内层求解器；若收敛且迭代次数超过 gateIters 则把 (p, z) 计入历史。
func (w *Wrapper) Solve(p linalg.Vector) linalg.Vector {
	originP, _ := w.inner.GetOrigin()
	dStar := squaredDistToVector(p, originP)
	bestIdx := -1 // 哨兵：尚未找到比当前原点更优的候选

	query := p.ToDense()
	for j := w.indexedM; j < w.m; j++ {
		if d := squaredDistToColumn(query, w.pointAt(j)); d < dStar {
			dStar = d
			bestIdx = j
		}
	}

	_, bestIdx = w.tree.Nearest(query, dStar, bestIdx)

	if bestIdx >= 0 {
		w.loadColumn(bestIdx, w.pCol, w.zCol)
		_ = w.inner.SetOrigin(w.pCol, w.zCol) // 历史列按不变量保证有效，失败只会保留旧原点
	}

	z := w.inner.Solve(p)
	w.converged = w.inner.HasConverged()
	w.iters = w.inner.NeededIterations()

	// 重建判定基于本次调用插入前积累的 new_count：一旦它超过递减后的
	// new_count_limit 就立即重建；本次插入的点在重建之后才追加，留在新的未索引后缀中。
	if w.newCount > 0 {
		w.newCountLimit--
		if w.newCount > w.newCountLimit {
			w.rebuild()
		}
	}

	if w.converged && w.iters > w.gateIters {
		w.appendPoint(p, z)
		w.newCount++
	}

	return z
}
