// Package store provides SQLite-backed persistence of minq runs.
//
// A recorded run is an append-only snapshot of one execution:
//   - runs: the run token, program hash, source text, and version stamps
//   - instructions: the executed (optimized) program, one row per instruction
//   - steps: one row per executed instruction, content-addressed by StepID
//   - outputs: the printed values in print order
//
// Determinism rules:
//   - All ordering uses logical seq/idx columns, never timestamps.
//   - Reads order by seq ASC, id ASC COLLATE BINARY so replays see
//     identical row order.
//   - Values are stored in the IR's canonical encoding; step rows are
//     content-addressed via ir.StepID, so byte-identical re-execution is
//     verifiable row by row.
//   - Writes use ON CONFLICT DO NOTHING, so re-recording a run is
//     idempotent.
//
// The database runs in WAL mode with a single connection (SQLite allows
// one writer; a single pooled connection avoids SQLITE_BUSY churn).
package store
