package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint renders the tree as indented ASCII, one statement per branch:
//
//	Program
//	├── DataDeclaration(nums [1, 2, 3])
//	├── Assignment
//	│   ├── target: big
//	│   └── SelectQuery
//	│       ├── condition: > 5
//	│       └── source: nums
//	└── Print(big)
//
// The rendering is stable and used by the compile command's --dump-ast flag.
func Fprint(w io.Writer, prog *Program) {
	fmt.Fprintln(w, "Program")
	for i, stmt := range prog.Statements {
		printStmt(w, stmt, "", i == len(prog.Statements)-1)
	}
}

// Sprint is Fprint into a string.
func Sprint(prog *Program) string {
	var b strings.Builder
	Fprint(&b, prog)
	return b.String()
}

func printStmt(w io.Writer, stmt Statement, prefix string, last bool) {
	branch, childPrefix := glyphs(prefix, last)

	switch s := stmt.(type) {
	case *DataDeclaration:
		fmt.Fprintf(w, "%s%sDataDeclaration(%s %s)\n", prefix, branch, s.Name, FormatValues(s.Values))
	case *Assignment:
		fmt.Fprintf(w, "%s%sAssignment\n", prefix, branch)
		printLeaf(w, childPrefix, false, "target", s.Target)
		printExpr(w, s.Rhs, childPrefix, true)
	case *SelectQuery, *FilterQuery, *Aggregation:
		printExpr(w, s.(Expr), prefix, last)
	case *Print:
		fmt.Fprintf(w, "%s%sPrint(%s)\n", prefix, branch, s.Name)
	}
}

func printExpr(w io.Writer, e Expr, prefix string, last bool) {
	branch, childPrefix := glyphs(prefix, last)

	switch x := e.(type) {
	case *SelectQuery:
		fmt.Fprintf(w, "%s%sSelectQuery\n", prefix, branch)
		printLeaf(w, childPrefix, false, "condition", x.Pred.String())
		printLeaf(w, childPrefix, true, "source", x.Source)
	case *FilterQuery:
		fmt.Fprintf(w, "%s%sFilterQuery\n", prefix, branch)
		printLeaf(w, childPrefix, false, "parity", x.Parity.String())
		printLeaf(w, childPrefix, true, "source", x.Source)
	case *Aggregation:
		fmt.Fprintf(w, "%s%sAggregation(%s)\n", prefix, branch, x.Op)
		printLeaf(w, childPrefix, true, "source", x.Source)
	case *VarRef:
		fmt.Fprintf(w, "%s%sVarRef(%s)\n", prefix, branch, x.Name)
	}
}

func printLeaf(w io.Writer, prefix string, last bool, label, value string) {
	branch, _ := glyphs(prefix, last)
	fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, label, value)
}

func glyphs(prefix string, last bool) (branch, childPrefix string) {
	if last {
		return "└── ", prefix + "    "
	}
	return "├── ", prefix + "│   "
}
