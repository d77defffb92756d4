package oracle

import "nlsolve/linalg"

// LinearOracle 实现 F(p, z) = A·z + B·p + c，用于验证求解器在单步内精确收敛
// （雅可比恒为 A，参数雅可比恒为 B，残差对 z 严格线性）。
type LinearOracle struct {
	n, p int
	a    linalg.Matrix // N×N
	b    linalg.Matrix // N×P
	c    linalg.Vector // 长度 N
}

// NewLinearOracle 创建线性Oracle。a 必须为方阵 N×N，b 为 N×P，c 长度为 N。
func NewLinearOracle(a, b linalg.Matrix, c linalg.Vector) *LinearOracle {
	n := a.Rows()
	if a.Cols() != n {
		panic("oracle: linear oracle requires square A")
	}
	if b.Rows() != n {
		panic("oracle: linear oracle requires B with matching row count")
	}
	if c.Length() != n {
		panic("oracle: linear oracle requires c with matching length")
	}
	return &LinearOracle{n: n, p: b.Cols(), a: a, b: b, c: c}
}

func (o *LinearOracle) N() int { return o.n }
func (o *LinearOracle) P() int { return o.p }

// Evaluate 计算 r = A·z + B·p + c，J = A，Jp = B（J、Jp 恒定，不随 p、z 变化）。
func (o *LinearOracle) Evaluate(p, z linalg.Vector, r linalg.Vector, j, jp linalg.Matrix) {
	o.a.MulVec(z, r)
	if o.p > 0 {
		bp := linalg.NewVector(o.n)
		o.b.MulVec(p, bp)
		r.Add(bp)
	}
	r.Add(o.c)
	o.a.Copy(j)
	o.b.Copy(jp)
}
