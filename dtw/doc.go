// Package dtw computes Dynamic Time Warping (DTW) distances between numeric
// time series and between every pair of rows of a feature matrix.
//
// DTW finds the cheapest alignment of two sequences by warping the time axis.
// It serves as the per-view distance for longitudinal views (one row per
// sample, one column per time point) where two samples follow the same
// trajectory at a different pace, which a point-wise Euclidean distance
// would punish.
//
// Key features:
//   - two-row dynamic programme: O(n·m) time, O(m) memory
//   - optional Sakoe–Chiba band (|i−j| ≤ Window)
//   - slope penalty to discourage excessive stretching
//
// Usage:
//
//	opts := dtw.DefaultOptions()
//	opts.Window = 3
//	d, err := dtw.Distance(a, b, opts)
//	D, err := dtw.Pairwise(X, opts) // n×n, symmetric, zero diagonal
package dtw
