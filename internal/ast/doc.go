// Package ast defines the abstract syntax tree for minq programs.
//
// The node set is closed. Statement, Expr, and Predicate are sealed
// interfaces using the marker method pattern: only types in this package
// implement them, so type switches in the analyzer and the IR generator can
// be exhaustive and treat unknown nodes as programming errors.
//
// A program is a flat statement list; there is no nesting beyond an
// assignment's right-hand expression. Queries and aggregations appear both
// as standalone statements and as assignment right-hand sides, so those
// node types implement both Statement and Expr.
//
// Nodes are produced by the parser or constructed programmatically. The
// pipeline consumes a structurally valid tree; Validate checks the
// structural invariants a hand-built tree might violate. Semantic analysis
// attaches the inferred result type to every expression node.
//
// ast imports nothing internal; parser, sema, and irgen all import ast.
package ast
