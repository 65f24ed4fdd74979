// Package simfuse integrates several feature matrices measured on the same
// samples (views) into one sample-by-sample similarity network and
// partitions the samples on it.
//
// What it does:
//
//	• Similarity: one scaled-exponential affinity per view (Euclidean or DTW)
//	• Fusion: cross-view diffusion of k-NN and global kernels (SNF)
//	• Clustering: Partitioning Around Medoids (BUILD + SWAP) with silhouettes
//	• Extras: eigengap cluster-count estimate, label propagation
//
// Packages:
//
//	matrix/      dense float64 matrices, kernels and validators
//	dtw/         dynamic time warping distances for time-series views
//	snf/         affinities, kernels, diffusion, similarity→distance
//	pam/         medoid clustering on a distance matrix
//	propagate/   seed scoring on a similarity network
//	pipeline/    fuse → distance → cluster with logging and run ids
//	cmd/simfuse  command-line front end
//
// Quick example:
//
//	res, err := snf.Fuse(ctx, []matrix.Matrix{rna, methylation}, snf.DefaultOptions())
//	D, err := snf.ToDistance(res.Consensus)
//	opts := pam.DefaultOptions()
//	opts.K = 3
//	clusters, err := pam.Cluster(D, opts)
//
// The core packages are deterministic: identical inputs give bit-identical
// outputs for any worker count.
package simfuse
