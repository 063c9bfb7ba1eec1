package testutil

// FixedRunGenerator returns the same run token on every call.
//
// engine.FixedGenerator hands out tokens in sequence and panics when
// exhausted; scenario tests instead want one stable token for however many
// runs a case performs, so golden snapshots stay byte-identical.
//
// Stateless and safe for concurrent use.
type FixedRunGenerator struct {
	token string
}

// NewFixedRunGenerator creates a generator for the given token. The token
// usually comes from the scenario YAML:
//
//	run_token: "test-run-00000000-0000-0000-0000-000000000001"
//
// An empty token falls back to "test-run-default".
func NewFixedRunGenerator(token string) *FixedRunGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedRunGenerator{token: token}
}

// Generate returns the fixed run token.
func (g *FixedRunGenerator) Generate() string {
	return g.token
}
