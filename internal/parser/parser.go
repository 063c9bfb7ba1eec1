// Package parser builds minq ASTs by recursive descent over the token
// stream. Parsing is fail-fast: the first syntax error aborts with a
// ParseError carrying the offending token's position. There is no error
// recovery and no lookahead beyond one token.
package parser

import (
	"fmt"
	"strconv"

	"github.com/roach88/minq/internal/ast"
	"github.com/roach88/minq/internal/lexer"
)

// ParseError reports a syntax error and where it was found.
type ParseError struct {
	Line    int
	Col     int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Message)
}

// Parse scans and parses a complete source text. A scan error is returned
// unwrapped; syntax errors are *ParseError.
func Parse(src string) (*ast.Program, error) {
	toks, err := lexer.Scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseProgram()
}

// parser holds the cursor into the token slice. The slice always ends with
// EOF, so cur never runs off the end.
type parser struct {
	toks []lexer.Token
	pos  int
}

func (p *parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *parser) advance() lexer.Token {
	tok := p.toks[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected %s, found %s", kind, tok)
	}
	return p.advance(), nil
}

func (p *parser) errorf(tok lexer.Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Message: fmt.Sprintf(format, args...)}
}

func pos(tok lexer.Token) ast.Position {
	return ast.Position{Line: tok.Line, Col: tok.Col}
}

func (p *parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur().Kind != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *parser) parseStatement() (ast.Statement, error) {
	switch tok := p.cur(); tok.Kind {
	case lexer.DATA:
		return p.parseDataDeclaration()
	case lexer.IDENT:
		return p.parseAssignment()
	case lexer.SELECT:
		return p.parseSelectQuery()
	case lexer.FILTER:
		return p.parseFilterQuery()
	case lexer.SUM, lexer.MAX, lexer.MIN, lexer.COUNT:
		return p.parseAggregation()
	case lexer.PRINT:
		return p.parsePrint()
	default:
		return nil, p.errorf(tok, "expected statement, found %s", tok)
	}
}

// data nums = [1, 2, 3]
func (p *parser) parseDataDeclaration() (ast.Statement, error) {
	kw := p.advance() // data

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}

	// At least one element; empty literals are not part of the grammar.
	first, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	values := []int64{first}
	for p.cur().Kind == lexer.COMMA {
		p.advance()
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		values = append(values, n)
	}

	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.DataDeclaration{Name: name.Lexeme, Values: values, At: pos(kw)}, nil
}

// target = <expr>
func (p *parser) parseAssignment() (ast.Statement, error) {
	target := p.advance() // IDENT

	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}

	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Target: target.Lexeme, Rhs: rhs, At: pos(target)}, nil
}

func (p *parser) parseExpr() (ast.Expr, error) {
	switch tok := p.cur(); tok.Kind {
	case lexer.SELECT:
		return p.parseSelectQuery()
	case lexer.FILTER:
		return p.parseFilterQuery()
	case lexer.SUM, lexer.MAX, lexer.MIN, lexer.COUNT:
		return p.parseAggregation()
	case lexer.IDENT:
		p.advance()
		return &ast.VarRef{Name: tok.Lexeme, At: pos(tok)}, nil
	default:
		return nil, p.errorf(tok, "expected query, aggregation, or name, found %s", tok)
	}
}

// select > 5 from nums | select between 2 and 8 from nums
func (p *parser) parseSelectQuery() (*ast.SelectQuery, error) {
	kw := p.advance() // select

	pred, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	source, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.SelectQuery{Pred: pred, Source: source.Lexeme, At: pos(kw)}, nil
}

// The '=' token doubles as the equality condition inside select.
func (p *parser) parseCondition() (ast.Predicate, error) {
	switch tok := p.cur(); tok.Kind {
	case lexer.GT:
		p.advance()
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return ast.GreaterThan{N: n}, nil
	case lexer.LT:
		p.advance()
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return ast.LessThan{N: n}, nil
	case lexer.ASSIGN:
		p.advance()
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return ast.Equal{N: n}, nil
	case lexer.BETWEEN:
		p.advance()
		lo, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.AND); err != nil {
			return nil, err
		}
		hi, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return ast.Between{Lo: lo, Hi: hi}, nil
	default:
		return nil, p.errorf(tok, "expected condition (>, <, = or between), found %s", tok)
	}
}

// filter even from nums
func (p *parser) parseFilterQuery() (*ast.FilterQuery, error) {
	kw := p.advance() // filter

	var parity ast.Parity
	switch tok := p.cur(); tok.Kind {
	case lexer.EVEN:
		parity = ast.Even
	case lexer.ODD:
		parity = ast.Odd
	default:
		return nil, p.errorf(tok, "expected even or odd, found %s", tok)
	}
	p.advance()

	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	source, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.FilterQuery{Parity: parity, Source: source.Lexeme, At: pos(kw)}, nil
}

// sum from nums | max from nums | min from nums | count from nums
func (p *parser) parseAggregation() (*ast.Aggregation, error) {
	kw := p.advance()

	var op ast.AggKind
	switch kw.Kind {
	case lexer.SUM:
		op = ast.AggSum
	case lexer.MAX:
		op = ast.AggMax
	case lexer.MIN:
		op = ast.AggMin
	case lexer.COUNT:
		op = ast.AggCount
	}

	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	source, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Aggregation{Op: op, Source: source.Lexeme, At: pos(kw)}, nil
}

// print big
func (p *parser) parsePrint() (ast.Statement, error) {
	kw := p.advance() // print

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Print{Name: name.Lexeme, At: pos(kw)}, nil
}

func (p *parser) parseNumber() (int64, error) {
	tok, err := p.expect(lexer.NUMBER)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return 0, p.errorf(tok, "number %s out of range", tok.Lexeme)
	}
	return n, nil
}
