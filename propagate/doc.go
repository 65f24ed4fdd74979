// Package propagate scores unlabelled samples from a few labelled seeds over
// a similarity network, typically the consensus network produced by snf.
//
// Two scorers are provided:
//
//   - LabelPropagation iterates F ← α·Ŝ·F + (1−α)·Y with the symmetrically
//     normalised network Ŝ = D^{-½}·W·D^{-½} until the largest change drops
//     below Tolerance. Scores diffuse along multi-step paths.
//   - NeighborVoting (guilt by association) scores each sample by the share
//     of its similarity mass that points at seeds. One step, no iteration.
//
// Both return plain score vectors aligned with the rows of W; thresholds and
// evaluation metrics are left to the caller.
package propagate
