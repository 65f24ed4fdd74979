package pam

import (
	"fmt"
	"math"

	"github.com/katalvlaran/simfuse/matrix"
)

// Silhouette summarises how well each object sits in its cluster.
//
// For object i with a(i) the mean distance to the other members of its
// cluster and b(i) the smallest mean distance to another cluster:
//
//	s(i) = (b(i) − a(i)) / max(a(i), b(i))
//
// s(i) = 0 for objects alone in their cluster and when only one cluster
// exists.
type Silhouette struct {
	// Widths[i] is s(i) ∈ [−1, 1].
	Widths []float64
	// ClusterAverages[c] is the mean width over cluster c.
	ClusterAverages []float64
	// Average is the mean width over all objects.
	Average float64
}

// ComputeSilhouette returns the silhouette widths of a labelled partition.
// labels[i] must lie in [0, k) where k−1 is the largest label.
//
// Errors: ErrInvalidDistance, ErrInvalidLabels.
//
// Complexity: O(n²).
func ComputeSilhouette(D matrix.Matrix, labels []int) (*Silhouette, error) {
	d, err := distanceRows(D, matrix.DefaultEpsilon)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(d) {
		return nil, fmt.Errorf("%d labels for %d objects: %w", len(labels), len(d), ErrInvalidLabels)
	}
	for i, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("object %d has label %d: %w", i, l, ErrInvalidLabels)
		}
	}

	return silhouette(d, labels), nil
}

// silhouette is the unchecked kernel behind ComputeSilhouette.
func silhouette(d [][]float64, labels []int) *Silhouette {
	n := len(d)
	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	size := make([]int, k)
	for _, l := range labels {
		size[l]++
	}

	out := &Silhouette{
		Widths:          make([]float64, n),
		ClusterAverages: make([]float64, k),
	}
	sums := make([]float64, k)
	var (
		i, j, c int
		a, b, m float64
	)
	for i = 0; i < n; i++ {
		own := labels[i]
		if size[own] < 2 {
			continue
		}
		for c = range sums {
			sums[c] = 0
		}
		for j = 0; j < n; j++ {
			if j != i {
				sums[labels[j]] += d[i][j]
			}
		}
		a = sums[own] / float64(size[own]-1)
		b = math.Inf(1)
		for c = 0; c < k; c++ {
			if c == own || size[c] == 0 {
				continue
			}
			if m = sums[c] / float64(size[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if den := math.Max(a, b); den > 0 {
			out.Widths[i] = (b - a) / den
		}
	}

	var total float64
	for i = 0; i < n; i++ {
		out.ClusterAverages[labels[i]] += out.Widths[i]
		total += out.Widths[i]
	}
	for c = 0; c < k; c++ {
		if size[c] > 0 {
			out.ClusterAverages[c] /= float64(size[c])
		}
	}
	if n > 0 {
		out.Average = total / float64(n)
	}

	return out
}
