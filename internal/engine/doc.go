// Package engine interprets optimized IR programs.
//
// Execution is strictly sequential: one instruction at a time, front to
// back, no branching and no re-entry. Each run gets a fresh environment,
// a run token from the configured generator, and a logical clock that
// stamps every executed step with a strictly increasing sequence number.
//
// An optional TraceSink observes every step and printed output; the SQLite
// trace store implements it to record runs for audit and replay.
package engine
