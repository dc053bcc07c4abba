// Package defect scores candidate transcripts for the failure modes of
// large speech models, chiefly runaway phrase repetition.
//
// Three heuristics look for repetition, in order, and stop at the first
// hit: repeated n-grams across the whole text, a short substring looping
// in the final quarter, and a suffix that already appeared just before it.
// QualityScore combines the repetition verdict with vocabulary diversity
// and the share of unusual characters into a score in [0,1].
//
// All thresholds live in Thresholds so they can be recalibrated without
// touching the algorithm.
package defect
