// Package snf implements Similarity Network Fusion: per-view patient
// similarity networks built from feature matrices and fused into a single
// consensus network by iterative cross-diffusion.
//
// 🚀 What is SNF?
//
//	Each data view (one omics layer, one modality) measures the same samples.
//	SNF turns every view into a similarity network and lets the views
//	"diffuse" into each other: a view keeps its own local neighbourhood
//	structure (S) but repeatedly takes its global structure (P) from the
//	other views. Signal shared across views is reinforced, view-specific
//	noise is damped.
//
// ✨ Pipeline:
//
//	X_v (n×f_v) ──Affinity──▶ W_v ──LocalKernel──▶ S_v (k-NN, row-stochastic)
//	                              └─GlobalKernel─▶ P_v (diag ½, row-stochastic)
//	repeat T times:  P_v ← norm( sym( S_v · mean_{w≠v} P_w · S_vᵀ ) )
//	P_c = mean_v P_v  ──ToDistance──▶ D (zero diagonal, [0,1])
//
// Conventions:
//   - W(i,i) = 1 (the kernel at distance 0); the diagonal never takes part in
//     neighbour selection and P ignores it.
//   - S is allowed to be asymmetric: neighbour sets are not symmetric.
//   - Ties in neighbour selection go to the lower sample index.
//
// ⚙️ Usage:
//
//	opts := snf.DefaultOptions()
//	opts.Neighbors = 20
//	res, err := snf.Fuse(ctx, []matrix.Matrix{expr, methyl}, opts)
//	D, err := snf.ToDistance(res.Consensus)
//
// Per-view construction and every diffusion iteration run their views
// concurrently; results are written to index-addressed slots, so the output
// does not depend on scheduling.
//
// Complexity:
//   - Affinity: O(n²·f) per view.
//   - Diffusion: O(T · s · n³).
package snf
