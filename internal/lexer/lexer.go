package lexer

import "unicode"

// keywords maps source text to its keyword Kind. An identifier that is not
// in this map lexes as IDENT.
var keywords = map[string]Kind{
	"data":    DATA,
	"select":  SELECT,
	"filter":  FILTER,
	"sum":     SUM,
	"max":     MAX,
	"min":     MIN,
	"count":   COUNT,
	"between": BETWEEN,
	"from":    FROM,
	"even":    EVEN,
	"odd":     ODD,
	"print":   PRINT,
	"and":     AND,
}

// Scan tokenizes the whole input. The returned slice always ends with an EOF
// token. The first unexpected rune aborts the scan.
func Scan(src string) ([]Token, error) {
	l := &lexer{src: []rune(src), line: 1, col: 1}

	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// lexer holds all mutable state for a single scanning pass over src.
type lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // 1-based source line
	col  int // 1-based column of the next rune
}

// peek returns the rune at the current position without advancing.
func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// skipBlanks discards whitespace and '#' line comments.
func (l *lexer) skipBlanks() {
	for l.pos < len(l.src) {
		switch {
		case unicode.IsSpace(l.peek()):
			l.advance()
		case l.peek() == '#':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (Token, error) {
	l.skipBlanks()

	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Line: line, Col: col}, nil
	}

	r := l.peek()
	switch {
	case unicode.IsLetter(r):
		return l.scanIdent(), nil
	case unicode.IsDigit(r):
		return l.scanNumber(), nil
	}

	l.advance()
	switch r {
	case '[':
		return Token{Kind: LBRACKET, Lexeme: "[", Line: line, Col: col}, nil
	case ']':
		return Token{Kind: RBRACKET, Lexeme: "]", Line: line, Col: col}, nil
	case ',':
		return Token{Kind: COMMA, Lexeme: ",", Line: line, Col: col}, nil
	case '>':
		return Token{Kind: GT, Lexeme: ">", Line: line, Col: col}, nil
	case '<':
		return Token{Kind: LT, Lexeme: "<", Line: line, Col: col}, nil
	case '=':
		return Token{Kind: ASSIGN, Lexeme: "=", Line: line, Col: col}, nil
	}
	return Token{}, &ScanError{Line: line, Col: col, Rune: r}
}

// scanIdent collects an identifier or keyword. The leading rune must be a
// letter; later runes may be letters, digits, or underscores. Identifiers
// cannot start with '_', which keeps the compiler's temporary namespace
// ("_t1", "_t2", ...) out of reach of source programs.
func (l *lexer) scanIdent() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	kind := IDENT
	if kw, ok := keywords[lexeme]; ok {
		kind = kw
	}
	return Token{Kind: kind, Lexeme: lexeme, Line: line, Col: col}
}

// scanNumber collects a decimal integer literal. Range checking happens in
// the parser, where a diagnostic with the statement's position is available.
func (l *lexer) scanNumber() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	return Token{Kind: NUMBER, Lexeme: string(l.src[start:l.pos]), Line: line, Col: col}
}
