// Package kdtree 实现静态多维最近邻索引，支持外部候选（最优距离、最优索引）
// 的"预置"查询——这是缓存包装器复用的关键原语：预置查询永远不会比调用方
// 已知的候选更差（只会更好或相等）。
//
// gonum.org/v1/gonum/spatial/kdtree 的 Tree.Nearest/NearestSet 不支持用
// 外部候选播种查询（见 DESIGN.md），因此这里手写一个支持该用法的静态树：
// 导出构造函数 New 返回 *Tree、误用即 panic、文档注释采用"函数名 中文说明"的
// 登记格式。
package kdtree

import (
	"math"
	"sort"
)

// Points 是k-d树建索引所需的点集访问接口，存储仍归调用方所有——
// 树本身只持有节点数组与索引排列，不复制点数据。
type Points interface {
	// Len 返回点的数量 K
	Len() int
	// Dim 返回维度 P
	Dim() int
	// Coord 返回第 i 个点在第 d 维上的坐标
	Coord(i, d int) float64
}

// node 是树节点，持有一个点索引作为分割点，axis/split 定义分割超平面。
type node struct {
	axis     int
	split    float64
	pointIdx int
	left     *node
	right    *node
}

// Tree 是在固定点集上一次性构建的静态k-d树。
type Tree struct {
	points Points
	root   *node
}

// New 对 points 执行自顶向下的中位数分割构建（按方差最大的维度选择分割轴，
// 而非简单地按深度轮询维度——参见 SPEC_FULL.md §4.4：当候选参数点在各维度
// 上分布不均匀时，方差最大轴的选择能让树更浅）。
func New(points Points) *Tree {
	t := &Tree{points: points}
	if points.Len() == 0 {
		return t
	}
	indices := make([]int, points.Len())
	for i := range indices {
		indices[i] = i
	}
	t.root = t.build(indices)
	return t
}

// build 递归地对 indices 执行中位数分割，返回子树根节点。
func (t *Tree) build(indices []int) *node {
	if len(indices) == 0 {
		return nil
	}
	axis := t.pickAxis(indices)
	hasCoords := t.points.Dim() > 0 // P=0 时所有点重合，没有坐标可排序或分割
	if hasCoords {
		sort.Slice(indices, func(i, j int) bool {
			return t.points.Coord(indices[i], axis) < t.points.Coord(indices[j], axis)
		})
	}
	mid := len(indices) / 2
	n := &node{
		axis:     axis,
		pointIdx: indices[mid],
	}
	if hasCoords {
		n.split = t.points.Coord(indices[mid], axis)
	}
	n.left = t.build(indices[:mid])
	n.right = t.build(indices[mid+1:])
	return n
}

// pickAxis 选择 indices 所覆盖的点在哪一维上方差最大。
func (t *Tree) pickAxis(indices []int) int {
	dim := t.points.Dim()
	bestAxis := 0
	bestVar := -1.0
	for d := 0; d < dim; d++ {
		mean := 0.0
		for _, idx := range indices {
			mean += t.points.Coord(idx, d)
		}
		mean /= float64(len(indices))
		variance := 0.0
		for _, idx := range indices {
			diff := t.points.Coord(idx, d) - mean
			variance += diff * diff
		}
		if variance > bestVar {
			bestVar = variance
			bestAxis = d
		}
	}
	return bestAxis
}

func squaredDist(points Points, idx int, query []float64) float64 {
	sum := 0.0
	for d := 0; d < points.Dim(); d++ {
		diff := points.Coord(idx, d) - query[d]
		sum += diff * diff
	}
	return sum
}

// Nearest 返回 query 与候选 (bestDist, bestIdx) 以及树中所有点之间平方欧氏
// 距离的较小者。bestIdx 由调用方提供的外部候选索引原样传入——只有当树中
// 存在严格更优的点时才会被替换，因此预置只可能让结果变得更好（I5）。
// 当树为空（K=0）时原样返回预置候选。
func (t *Tree) Nearest(query []float64, bestDist float64, bestIdx int) (float64, int) {
	if t.root == nil {
		return bestDist, bestIdx
	}
	t.search(t.root, query, &bestDist, &bestIdx)
	return bestDist, bestIdx
}

// search 标准分支限界搜索：先递归进入 query 所在一侧，只有当 query 到分割
// 超平面的距离小于当前最优距离时才访问另一侧。
func (t *Tree) search(n *node, query []float64, bestDist *float64, bestIdx *int) {
	if n == nil {
		return
	}
	d := squaredDist(t.points, n.pointIdx, query)
	if d < *bestDist {
		*bestDist = d
		*bestIdx = n.pointIdx
	}

	diff := 0.0
	if len(query) > 0 {
		diff = query[n.axis] - n.split
	}
	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}
	t.search(near, query, bestDist, bestIdx)
	if diff*diff < *bestDist || math.IsNaN(*bestDist) {
		t.search(far, query, bestDist, bestIdx)
	}
}
