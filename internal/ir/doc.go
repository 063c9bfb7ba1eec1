// Package ir defines the instruction set and runtime values for minq programs.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the IR the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Numbers are always int64. There is no float kind anywhere.
//   - Instruction rendering and canonical encoding are deterministic
//     byte-for-byte, so hashes and golden files are stable across runs.
//   - Logical step sequence numbers only, never wall-clock timestamps.
package ir
