// Package gc is an embeddable tracing garbage collector: a tri-color
// mark-sweep engine driven by one of three interchangeable collection
// policies (stop-the-world, incremental, concurrent), optionally
// parallel across worker goroutines.
//
// Mutators talk to the collector through three handle types -- Ref (a
// transient, non-owning reference), Root (a scoped stack root that keeps
// its target reachable), and Field (a heap-interior, write-barriered
// reference) -- plus a small set of managed containers (Array, Vector,
// HashMap) built on top of them.
package gc
