// Package loopsearch finds the frame pair that makes the best seamless loop.
//
// Every start index i is scored on its own goroutine against each later end
// index j, in increasing j order, blocking on frame readiness so the search
// overlaps with loading. Pairs whose pixel buffers differ in length are
// skipped. The composite score weighs a duration preference against visual
// similarity:
//
//	composite = w*preference(i, j, n) + (1-w)*similarity(i, j)
//
// Ties keep the smallest j. The per-start candidates are then stably sorted by
// composite, descending, and the first feasible one is the selection.
package loopsearch
