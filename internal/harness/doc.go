// Package harness provides conformance testing for minq programs.
//
// The harness loads YAML scenario files, compiles and executes the program
// each one carries, and validates the result against declared assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	source: |
//	  data nums = [1, 2, 3, 4, 10, 15]
//	  big = select > 5 from nums
//	  print big
//	assertions:
//	  - type: output_equals
//	    outputs:
//	      - [10, 15]
//	  - type: ir_contains
//	    opcode: LIST
//	    stage: optimized
//
// # Assertion Types
//
//   - output_equals: the full printed output, in order
//   - output_contains: a single printed value appears somewhere in the output
//   - error: compilation or execution fails in the given phase with the
//     given code
//   - symbol: a name is declared with the given kind (and optionally size)
//   - ir_contains: an opcode appears in the raw or optimized program,
//     optionally exactly N times
//   - ir_absent: an opcode does not appear
//   - step_count: the run executed exactly N instructions
//   - property: a cross-run property (optimizer_equivalence,
//     parity_partition)
//
// # Deterministic Testing
//
// Scenarios execute with a fixed run token (from scenario run_token or the
// testutil default) so repeated runs produce byte-identical traces, which is
// what golden snapshot comparison relies on.
package harness
