package oracle

import (
	"math"

	"nlsolve/linalg"
)

// 物理常数。
const (
	boltzmannK = 1.380649e-23 // 玻尔兹曼常数 (J/K)
	electronQ  = 1.60217662e-19
)

// DiodeOracle 是 N=1、P=0 的标量诊断Oracle：一个理想电流源 I 驱动的二极管，
// 并联一个可选分流电阻 Rshunt（传 +Inf 表示不接分流电阻）。
//
//	F(z) = I_d(z) + z/Rshunt - I
//	I_d(z) = Is·(exp(z/Vt) − 1)
//
// 未知量 z 是二极管压降 v_d。当 Rshunt = +Inf 时，解析解为
// z* = Vt·ln(I/Is + 1)（标准二极管方程）。
type DiodeOracle struct {
	is      float64 // 反向饱和电流 Is
	vt      float64 // 热电压 Vt = N·k·T/q
	current float64 // 驱动电流 I
	rshunt  float64 // 并联电阻（+Inf 表示无）
}

// NewDiodeOracle 创建二极管Oracle。
// temp 为开尔文温度，emission 为发射系数 N，current 为驱动电流，rshunt 为并联电阻
// （传 math.Inf(1) 表示不接分流电阻）。
func NewDiodeOracle(is, temp, emission, current, rshunt float64) *DiodeOracle {
	vt := emission * boltzmannK * temp / electronQ
	return &DiodeOracle{is: is, vt: vt, current: current, rshunt: rshunt}
}

func (o *DiodeOracle) N() int { return 1 }
func (o *DiodeOracle) P() int { return 0 }

// Evaluate 计算标量残差与雅可比：
//
//	r  = Is·(exp(z/Vt) − 1) + z/Rshunt − I
//	J  = (Is/Vt)·exp(z/Vt) + 1/Rshunt
//
// Jp 维度为 1×0，没有分量需要写入。
func (o *DiodeOracle) Evaluate(p, z linalg.Vector, r linalg.Vector, j, jp linalg.Matrix) {
	v := z.Get(0)
	expTerm := math.Exp(v / o.vt)
	idiode := o.is * (expTerm - 1)
	gdiode := (o.is / o.vt) * expTerm

	shunt := 0.0
	gshunt := 0.0
	if !math.IsInf(o.rshunt, 1) {
		shunt = v / o.rshunt
		gshunt = 1 / o.rshunt
	}

	r.Set(0, idiode+shunt-o.current)
	j.Set(0, 0, gdiode+gshunt)
}
