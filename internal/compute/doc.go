// Package compute splits index ranges across goroutines.
//
// The solver runs every per-particle stage through [ParallelFor]. Each
// chunk owns a disjoint range of particles, so stages that only write their
// own particle need no locking and give the same result at any worker count.
package compute
