// Package aggregates defines domain-facing aggregate contracts.
//
// These contracts avoid persistence/transport details and describe the write boundaries where
// enrollment, progress, grading and like invariants must hold atomically.
package aggregates
