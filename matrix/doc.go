// Package matrix provides the dense linear-algebra primitives used by the
// similarity-network and clustering packages.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set and a
//     finite-value numeric policy.
//   - Kernels: Add, Sub, Scale, Mul, Transpose, Symmetrize, MatVec, RowSums.
//   - Statistics: NormalizeRowsL1, ZScoreColumns, PairwiseEuclidean,
//     MinMaxOffDiagonal.
//   - Spectral: EigenSym (cyclic Jacobi) for symmetric matrices.
//   - Validators: a single source of truth for shape/symmetry/diagonal checks.
//
// Every kernel allocates a fresh *Dense and never mutates its inputs. Loop
// orders are fixed (i→j, i→k→j), so identical inputs give bit-identical
// outputs. Errors are package sentinels wrapped with an operation tag and are
// matched with errors.Is.
//
// Matrices are best for the dense, small-to-medium sample counts typical of
// patient similarity networks (hundreds to a few thousand rows).
package matrix
