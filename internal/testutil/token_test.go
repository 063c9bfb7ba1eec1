package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/minq/internal/engine"
)

var _ engine.RunTokenGenerator = (*FixedRunGenerator)(nil)

func TestFixedRunGenerator_ReturnsSameToken(t *testing.T) {
	gen := NewFixedRunGenerator("test-run-123")

	assert.Equal(t, "test-run-123", gen.Generate())
	assert.Equal(t, "test-run-123", gen.Generate())
	assert.Equal(t, "test-run-123", gen.Generate())
}

func TestFixedRunGenerator_EmptyTokenDefault(t *testing.T) {
	gen := NewFixedRunGenerator("")

	assert.Equal(t, "test-run-default", gen.Generate())
}

func TestFixedRunGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedRunGenerator("stable-token")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "stable-token", gen.Generate())
			}
		}()
	}
	wg.Wait()
}
