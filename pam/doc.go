// Package pam implements Partitioning Around Medoids (k-medoids) over a
// precomputed dissimilarity matrix.
//
// 🚀 What is PAM?
//
//	PAM picks k actual objects (medoids) as cluster representatives and
//	assigns every object to its closest medoid. The objective is the total
//	dissimilarity Σ_j D_j, D_j being the distance from j to its nearest
//	medoid. Unlike k-means it needs no coordinates, only pairwise distances.
//
// ✨ Phases:
//
//	Unassigned ──▶ Building ──▶ Swapping ──▶ Converged
//
//	BUILD   first medoid = argmin_i Σ_j d(i,j); then greedily add the object
//	        with the largest gain Σ_j max(D_j − d(i,j), 0).
//	SWAP    for every (medoid i, non-medoid h) compute T_ih, the exact change
//	        of the objective when i is replaced by h; apply the best pair
//	        while it improves the objective, then recompute.
//
// Determinism:
//   - Ties in BUILD go to the lowest object index.
//   - Ties in SWAP go to the lowest (medoid, candidate) pair.
//   - The SWAP sweep runs on several goroutines; each one owns a fixed range
//     of medoids and the reduction walks them in order, so the chosen swap
//     never depends on scheduling.
//
// ⚙️ Usage:
//
//	opts := pam.DefaultOptions()
//	opts.K = 3
//	res, err := pam.Cluster(D, opts)
//	// res.Medoids, res.Labels, res.Silhouette.Average
//
// Errors:
//   - ErrConfiguration family for invalid k or an invalid distance matrix;
//     rejected before BUILD.
//   - ErrNonConvergence is never returned as the error: when MaxSwaps is hit
//     the best state so far is returned with Result.Warning set.
//
// Complexity:
//   - BUILD O(k·n²), one SWAP sweep O(k·(n−k)·n), Silhouette O(n²).
package pam
