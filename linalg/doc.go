// Package linalg 提供求解器栈使用的稠密向量、矩阵与LU分解。
//
// 只保留稠密实现（Dense Vector/Matrix/LU）：雅可比矩阵 N×N 与参数雅可比
// N×P 在一次采样求解中天然稠密，电路拓扑级别的CSR稀疏化、分块LU与矩阵
// 化简在这里没有用武之地（见 DESIGN.md）。
package linalg
