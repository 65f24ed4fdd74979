package pam_test

import (
	"testing"

	"github.com/katalvlaran/simfuse/pam"
)

// benchmarkCluster runs Cluster on n scattered points with k medoids.
func benchmarkCluster(b *testing.B, n, k, workers int) {
	D := lineDistances(b, scattered(n)...)
	opts := pam.DefaultOptions()
	opts.K = k
	opts.Workers = workers

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pam.Cluster(D, opts); err != nil {
			b.Fatalf("Cluster failed: %v", err)
		}
	}
}

// BenchmarkCluster_200_K5_Serial benchmarks a single-worker sweep.
func BenchmarkCluster_200_K5_Serial(b *testing.B) { benchmarkCluster(b, 200, 5, 1) }

// BenchmarkCluster_200_K5_Parallel benchmarks the default worker count.
func BenchmarkCluster_200_K5_Parallel(b *testing.B) { benchmarkCluster(b, 200, 5, 0) }

// BenchmarkBuild_500 benchmarks the BUILD phase alone.
func BenchmarkBuild_500(b *testing.B) {
	D := lineDistances(b, scattered(500)...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pam.Build(D, 8); err != nil {
			b.Fatalf("Build failed: %v", err)
		}
	}
}
