// Package diagnostics 把求解器栈的运行轨迹渲染成图像，供离线调试使用——
// 渲染两类轨迹：一次Newton迭代次数历史、一次同伦二分轨迹，后端用
// gonum.org/v1/plot 生成PNG。
package diagnostics

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ConvergenceTrace 记录每次 solve() 调用所需的迭代次数。
type ConvergenceTrace struct {
	iterations []int
}

// Record 追加一次 solve() 调用的迭代次数。
func (t *ConvergenceTrace) Record(iters int) {
	t.iterations = append(t.iterations, iters)
}

// PlotIterations 把迭代次数历史画成折线图并保存为 PNG。
func (t *ConvergenceTrace) PlotIterations(path string) error {
	p := plot.New()
	p.Title.Text = "Newton iteration count per solve"
	p.X.Label.Text = "solve call index"
	p.Y.Label.Text = "iterations"

	pts := make(plotter.XYs, len(t.iterations))
	for i, v := range t.iterations {
		pts[i].X = float64(i)
		pts[i].Y = float64(v)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("diagnostics: build iteration line: %w", err)
	}
	p.Add(line)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("diagnostics: save iteration plot: %w", err)
	}
	return nil
}

// HomotopyTrace 记录一次同伦延拓调用中尝试过的每个插值系数 a。
type HomotopyTrace struct {
	attempts []float64
}

// Record 追加一次二分尝试的插值系数。
func (t *HomotopyTrace) Record(a float64) {
	t.attempts = append(t.attempts, a)
}

// PlotAttempts 把二分轨迹画成折线图并保存为 PNG。
func (t *HomotopyTrace) PlotAttempts(path string) error {
	p := plot.New()
	p.Title.Text = "Homotopy bisection trace"
	p.X.Label.Text = "attempt index"
	p.Y.Label.Text = "interpolation coefficient a"

	pts := make(plotter.XYs, len(t.attempts))
	for i, v := range t.attempts {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("diagnostics: build homotopy line: %w", err)
	}
	p.Add(line)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("diagnostics: save homotopy plot: %w", err)
	}
	return nil
}
