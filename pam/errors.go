package pam

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the class of every input error detected before BUILD.
var ErrConfiguration = errors.New("pam: invalid configuration")

// ErrNonConvergence reports that MaxSwaps was reached while an improving swap
// was still available. It is surfaced through Result.Warning only.
var ErrNonConvergence = errors.New("pam: swap limit reached before convergence")

var (
	// ErrInvalidK indicates k ≤ 0 or k > n.
	ErrInvalidK = fmt.Errorf("%w: k must satisfy 1 <= k <= n", ErrConfiguration)

	// ErrInvalidDistance indicates a distance matrix that is not square,
	// symmetric, non-negative and finite with a zero diagonal. The matrix
	// sentinel describing the violation is wrapped as well.
	ErrInvalidDistance = fmt.Errorf("%w: invalid distance matrix", ErrConfiguration)

	// ErrInvalidMedoids indicates medoids that are not k distinct indices in [0,n).
	ErrInvalidMedoids = fmt.Errorf("%w: medoids must be distinct indices in range", ErrConfiguration)

	// ErrInvalidOptions indicates a negative MaxSwaps, Tolerance or Epsilon.
	ErrInvalidOptions = fmt.Errorf("%w: invalid options", ErrConfiguration)

	// ErrInvalidLabels indicates a label vector that does not fit the matrix.
	ErrInvalidLabels = fmt.Errorf("%w: labels must have one non-negative entry per object", ErrConfiguration)
)
