package main

import (
	"fmt"

	"nlsolve/cache"
	"nlsolve/diagnostics"
	"nlsolve/homotopy"
	"nlsolve/linalg"
	"nlsolve/newton"
	"nlsolve/oracle"
)

func main() {
	// 二极管-电阻标量场景：i=1mA, R=10kΩ, Is=1pA, 室温300K, N=1。
	diode := oracle.NewDiodeOracle(1e-12, 300, 1, 1e-3, 1e4)

	p0 := linalg.NewVector(0)
	z0 := linalg.NewVector(1)
	z0.Set(0, 0)

	base, err := newton.NewBase(diode, p0, z0)
	if err != nil {
		fmt.Println("construction failed:", err)
		return
	}

	convergence := &diagnostics.ConvergenceTrace{}
	base.Trace = convergence

	homo := homotopy.NewWrapper(base, diode.P())
	homoTrace := &diagnostics.HomotopyTrace{}
	homo.Trace = homoTrace

	cached := cache.NewWrapper(homo, diode.N(), diode.P())

	z := cached.Solve(p0)
	fmt.Printf("solved z=%s converged=%v iterations=%d\n", z, cached.HasConverged(), cached.NeededIterations())

	if err := convergence.PlotIterations("newton_iterations.png"); err != nil {
		fmt.Println("plot iterations failed:", err)
	}
	if err := homoTrace.PlotAttempts("homotopy_attempts.png"); err != nil {
		fmt.Println("plot homotopy attempts failed:", err)
	}
}
