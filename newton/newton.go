// Package newton 实现Newton基础求解器（每步取完整Newton步，不做阻尼）：对调用方提供的残差/雅可比Oracle
// 执行Newton迭代，并用上一次收敛操作点的一阶（隐函数定理）外推作为热启动。
//
// Solver 接口是三层求解器栈共享的能力集合——solve / has_converged /
// needed_iterations / set_tolerance / set_origin / get_origin；homotopy、
// cache 两个包装器都依赖此处定义的接口类型去持有并驱动各自的内层求解器。
package newton

import (
	"errors"

	"nlsolve/linalg"
	"nlsolve/oracle"
)

const (
	defaultTolerance = 1e-20
	defaultMaxIter   = 500
)

// Solver 是求解器栈的公共能力集合，Base/Homotopy/Caching 三层都实现它。
type Solver interface {
	// Solve 在参数 p 处求解，总是返回一个 z（从不失败）；调用 HasConverged
	// 判断本次求解是否成功收敛。
	Solve(p linalg.Vector) linalg.Vector
	// HasConverged 报告最近一次 Solve 是否收敛
	HasConverged() bool
	// NeededIterations 报告最近一次 Solve 的迭代次数
	NeededIterations() int
	// SetTolerance 设置平方残差收敛阈值
	SetTolerance(t float64)
	// SetOrigin 强制安装新的外推原点，重新求值Oracle并重新分解雅可比
	SetOrigin(p, z linalg.Vector) error
	// GetOrigin 返回当前外推原点 (p, z) 的副本
	GetOrigin() (linalg.Vector, linalg.Vector)
}

// IterationTracer 接收每次 Solve 调用所需的迭代次数，供离线诊断使用。
// diagnostics.ConvergenceTrace 满足此接口。
type IterationTracer interface {
	Record(iters int)
}

// BaseSolver 是Newton求解器：独占一个Oracle与一份缓存的LU分解。
type BaseSolver struct {
	oracle oracle.Oracle
	n, p   int

	tol     float64
	maxIter int

	converged bool
	iters     int

	z linalg.Vector // 当前迭代量，在 Solve 调用之间被复用

	lastP   linalg.Vector // 外推原点参数
	lastZ   linalg.Vector // 外推原点解
	lastJp  linalg.Matrix // 原点处的 Jp (N×P)
	lastJLU linalg.LU     // 原点处 J 的LU分解

	// 迭代内部复用的缓冲区，保证稳态求解除LU分解外不再分配内存。
	r      linalg.Vector
	j      linalg.Matrix
	jp     linalg.Matrix
	workLU linalg.LU
	dz     linalg.Vector
	dp     linalg.Vector
	jpdp   linalg.Vector
	extrap linalg.Vector

	Trace IterationTracer // 可选；非nil时每次 Solve 结束都记录迭代次数
}

// NewBase 创建Newton基础求解器，用 initialP/initialZ 作为外推原点——
// 要求 initialZ 在 tol 范围内（或足够接近收敛域）是 F(initialP, ·) = 0 的解。
func NewBase(o oracle.Oracle, initialP, initialZ linalg.Vector) (*BaseSolver, error) {
	n, p := o.N(), o.P()
	if initialP.Length() != p {
		return nil, errors.New("newton: initial p length does not match oracle parameter dimension")
	}
	if initialZ.Length() != n {
		return nil, errors.New("newton: initial z length does not match oracle unknown dimension")
	}

	lu, err := linalg.NewLU(n)
	if err != nil {
		return nil, err
	}
	workLU, err := linalg.NewLU(n)
	if err != nil {
		return nil, err
	}

	s := &BaseSolver{
		oracle:  o,
		n:       n,
		p:       p,
		tol:     defaultTolerance,
		maxIter: defaultMaxIter,
		z:       linalg.NewVector(n),
		lastP:   linalg.NewVector(p),
		lastZ:   linalg.NewVector(n),
		lastJp:  linalg.NewMatrix(n, p),
		lastJLU: lu,
		r:       linalg.NewVector(n),
		j:       linalg.NewMatrix(n, n),
		jp:      linalg.NewMatrix(n, p),
		workLU:  workLU,
		dz:      linalg.NewVector(n),
		dp:      linalg.NewVector(p),
		jpdp:    linalg.NewVector(n),
		extrap:  linalg.NewVector(n),
	}
	if err := s.SetOrigin(initialP, initialZ); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BaseSolver) HasConverged() bool    { return s.converged }
func (s *BaseSolver) NeededIterations() int { return s.iters }
func (s *BaseSolver) SetTolerance(t float64) { s.tol = t }

// SetOrigin 在 (p, z) 处重新求值Oracle、重新分解雅可比，并将其安装为新的
// 外推原点。
func (s *BaseSolver) SetOrigin(p, z linalg.Vector) error {
	if p.Length() != s.p {
		return errors.New("newton: set origin: p length mismatch")
	}
	if z.Length() != s.n {
		return errors.New("newton: set origin: z length mismatch")
	}
	s.oracle.Evaluate(p, z, s.r, s.j, s.jp)
	if !s.r.IsFinite() || !s.j.IsFinite() || !s.jp.IsFinite() {
		return errors.New("newton: set origin: oracle produced non-finite output")
	}
	if err := s.workLU.Decompose(s.j); err != nil {
		return err
	}
	p.Copy(s.lastP)
	z.Copy(s.lastZ)
	s.jp.Copy(s.lastJp)
	s.lastJLU, s.workLU = s.workLU, s.lastJLU
	s.converged = true
	s.iters = 0
	return nil
}

// GetOrigin 返回原点 (p, z) 的副本，调用方可自由持有。
func (s *BaseSolver) GetOrigin() (linalg.Vector, linalg.Vector) {
	p := linalg.NewVector(s.p)
	z := linalg.NewVector(s.n)
	s.lastP.Copy(p)
	s.lastZ.Copy(z)
	return p, z
}

// Solve 用一阶外推计算热启动初值，迭代完整Newton步 z ← z − J⁻¹·r 直至收敛、发散或耗尽
// maxIter。从不返回错误；调用 HasConverged 判断结果是否可信。
func (s *BaseSolver) Solve(p linalg.Vector) linalg.Vector {
	// 热启动：z0 = last_z − last_JLU⁻¹·(last_Jp·(p−last_p))
	p.Copy(s.dp)
	s.dp.Sub(s.lastP)
	s.lastJp.MulVec(s.dp, s.jpdp)
	if err := s.lastJLU.Solve(s.jpdp, s.extrap); err != nil {
		// 原点分解理论上总是有效（安装时已验证）；若仍失败则退化为零外推。
		s.extrap.Zero()
	}
	s.lastZ.Copy(s.z)
	s.z.Sub(s.extrap)

	s.converged = false
	s.iters = 0

	for iter := 0; iter < s.maxIter; iter++ {
		s.oracle.Evaluate(p, s.z, s.r, s.j, s.jp)
		s.iters = iter + 1

		if !s.r.IsFinite() || !s.j.IsFinite() {
			return s.result()
		}
		if err := s.workLU.Decompose(s.j); err != nil {
			return s.result()
		}
		if s.r.Norm2() < s.tol {
			s.converged = true
			s.installOrigin(p)
			return s.result()
		}
		if err := s.workLU.Solve(s.r, s.dz); err != nil {
			return s.result()
		}
		s.z.Sub(s.dz)
	}
	s.iters = s.maxIter
	return s.result()
}

// installOrigin 安装 (p, z) 为新原点，复用刚刚分解出的 workLU 作为
// last_JLU（避免对同一个J再分解一次），并将旧的 lastJLU 缓冲区回收为下次
// 迭代的 workLU。
func (s *BaseSolver) installOrigin(p linalg.Vector) {
	p.Copy(s.lastP)
	s.z.Copy(s.lastZ)
	s.jp.Copy(s.lastJp)
	s.lastJLU, s.workLU = s.workLU, s.lastJLU
}

func (s *BaseSolver) result() linalg.Vector {
	if s.Trace != nil {
		s.Trace.Record(s.iters)
	}
	out := linalg.NewVector(s.n)
	s.z.Copy(out)
	return out
}
