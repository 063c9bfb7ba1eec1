package engine

import (
	"sync"

	"github.com/google/uuid"
)

// RunTokenGenerator produces the token identifying one program execution.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests
// and replay).
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens, so tokens
// sort by creation time in listings and traces.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run tokens in order. Replay uses it
// to re-execute a run under its recorded token; tests use it for
// byte-stable traces and golden files.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator yielding tokens in the given order.
// Generate panics once the tokens are exhausted, so a test executing more
// runs than it declared fails fast.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("engine: FixedGenerator exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
