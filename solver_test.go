package nlsolve_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlsolve"
	"nlsolve/linalg"
	"nlsolve/oracle"
)

// TestStackSolvesDiodeAcrossLayers drives the diode-resistor oracle through
// all three wired layers (base → homotopy → caching) via the package facade
// and checks the full stack agrees with the textbook closed-form solution.
func TestStackSolvesDiodeAcrossLayers(t *testing.T) {
	is, temp, emission, current := 1e-12, 300.0, 1.0, 1e-3
	diode := oracle.NewDiodeOracle(is, temp, emission, current, math.Inf(1))

	p0 := linalg.NewVector(0)
	z0 := linalg.NewVectorFromData([]float64{0})

	base, err := nlsolve.NewBase(diode, p0, z0)
	require.NoError(t, err)

	homo := nlsolve.NewHomotopy(base, diode.P())
	cached := nlsolve.NewCaching(homo, diode.N(), diode.P())

	z := cached.Solve(p0)
	require.True(t, cached.HasConverged(), "expected the wired stack to converge")

	vt := emission * 1.380649e-23 * temp / 1.60217662e-19
	want := vt * math.Log(current/is+1)
	assert.InDelta(t, want, z.Get(0), 1e-6)
}

// TestStackRepeatedNearbySolvesConverge verifies that two nearby solves of a
// linear oracle through the full wired stack both converge to the exact
// solution. Each solve converges in one iteration, which is below the caching
// layer's insertion gate, so neither result is added to the cache history; the
// second solve is warm-started from the origin the first one installed.
func TestStackRepeatedNearbySolvesConverge(t *testing.T) {
	a := linalg.NewMatrix(2, 2)
	a.Set(0, 0, 2)
	a.Set(1, 1, 3)
	b := linalg.NewMatrix(2, 2)
	b.Set(0, 0, 1)
	b.Set(1, 1, 1)
	c := linalg.NewVector(2)
	lin := oracle.NewLinearOracle(a, b, c)

	p0 := linalg.NewVector(2)
	z0 := linalg.NewVector(2)
	base, err := nlsolve.NewBase(lin, p0, z0)
	require.NoError(t, err)

	homo := nlsolve.NewHomotopy(base, lin.P())
	cached := nlsolve.NewCaching(homo, lin.N(), lin.P())

	first := cached.Solve(linalg.NewVectorFromData([]float64{4, 9}))
	require.True(t, cached.HasConverged())
	assert.InDelta(t, -2, first.Get(0), 1e-9)
	assert.InDelta(t, -3, first.Get(1), 1e-9)

	second := cached.Solve(linalg.NewVectorFromData([]float64{4.1, 9.1}))
	require.True(t, cached.HasConverged())
	assert.InDelta(t, -2.05, second.Get(0), 1e-9)
	assert.InDelta(t, -3.033333333333333, second.Get(1), 1e-9)
}
