// Package domain contains the core types shared by the permutation pipeline:
// the immutable token and domain sets, generated candidates, and the label
// helpers used by the join heuristics. The types are free of I/O so they can
// be passed around by reference without synchronization.
package domain
