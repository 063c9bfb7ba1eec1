// Package lexer turns minq source text into a token stream.
//
// Scanning is a single fail-fast pass: the first unexpected rune aborts with
// a ScanError carrying its position. Comments start with '#' and run to end
// of line. Every token records the 1-based line and column of its first rune.
package lexer

import "fmt"

// Kind identifies the category of a lexed token.
type Kind int

const (
	EOF Kind = iota // sentinel: end of input

	// Literals
	IDENT  // variable name
	NUMBER // decimal integer literal

	// Keywords
	DATA    // "data"
	SELECT  // "select"
	FILTER  // "filter"
	SUM     // "sum"
	MAX     // "max"
	MIN     // "min"
	COUNT   // "count"
	BETWEEN // "between"
	FROM    // "from"
	EVEN    // "even"
	ODD     // "odd"
	PRINT   // "print"
	AND     // "and"

	// Punctuation
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	GT       // >
	LT       // <
	ASSIGN   // =
)

// kindNames is indexed by Kind.
var kindNames = [...]string{
	EOF:      "EOF",
	IDENT:    "IDENT",
	NUMBER:   "NUMBER",
	DATA:     "data",
	SELECT:   "select",
	FILTER:   "filter",
	SUM:      "sum",
	MAX:      "max",
	MIN:      "min",
	COUNT:    "count",
	BETWEEN:  "between",
	FROM:     "from",
	EVEN:     "even",
	ODD:      "odd",
	PRINT:    "print",
	AND:      "and",
	LBRACKET: "[",
	RBRACKET: "]",
	COMMA:    ",",
	GT:       ">",
	LT:       "<",
	ASSIGN:   "=",
}

// String returns the display name of the kind: keyword and punctuation kinds
// render as their source text, the rest as their category name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is one lexed unit with its source position.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Col    int
}

// String renders the token for diagnostics, e.g. `select` or `IDENT("nums")`.
func (t Token) String() string {
	switch t.Kind {
	case IDENT, NUMBER:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	default:
		return t.Kind.String()
	}
}

// ScanError reports an unexpected rune and where it was found.
type ScanError struct {
	Line int
	Col  int
	Rune rune
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("%d:%d: unexpected character %q", e.Line, e.Col, e.Rune)
}
