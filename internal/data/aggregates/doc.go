// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations in this package compose table-level repos from internal/data/repos
// and own the transaction boundary for enrollment, progress, grading, like and
// authoring writes.
package aggregates
