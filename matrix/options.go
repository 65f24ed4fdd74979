// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults.
//
// Design goals:
//   - Deterministic behavior: no global mutable state, no implicit randomness.
//   - Single source of truth: every tolerance used by validators and kernels
//     defaults to a constant declared here.
package matrix

// Numeric policy.
const (
	// DefaultEpsilon defines the non-negative tolerance used by structural checks
	// (symmetry, zero diagonal, AllClose in tests).
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on Set.
	DefaultValidateNaNInf = true

	// DefaultEigenTol is the off-diagonal threshold at which EigenSym stops.
	DefaultEigenTol = 1e-12

	// DefaultEigenSweeps caps the number of full cyclic Jacobi sweeps.
	// Cyclic Jacobi converges quadratically; 50 sweeps is far beyond what a
	// well-scaled symmetric matrix needs.
	DefaultEigenSweeps = 50
)
