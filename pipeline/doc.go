// Package pipeline chains the simfuse stages for a set of sample-aligned
// feature views: optional column standardisation, similarity network fusion,
// conversion to distances and medoid clustering. It also exposes cluster
// count estimation and label propagation on the fused network.
//
// The core packages (matrix, snf, pam, propagate) are silent; this package
// logs stage timings through an injected *zap.Logger (zap.NewNop by default)
// and tags every run with a random UUID.
package pipeline
