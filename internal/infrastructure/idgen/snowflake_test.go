package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeGenerator_UniqueAndPrefixed(t *testing.T) {
	gen, err := NewSnowflakeGenerator(1)
	require.NoError(t, err)

	const workers, perWorker = 8, 500
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n := gen.NextOrderNumber()
				mu.Lock()
				seen[n] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	for n := range seen {
		assert.True(t, strings.HasPrefix(n, OrderPrefix))
		break
	}
}

func TestSnowflakeGenerator_Ordered(t *testing.T) {
	gen, err := NewSnowflakeGenerator(3)
	require.NoError(t, err)

	a := gen.NextOrderNumber()
	b := gen.NextOrderNumber()
	assert.Len(t, b, len(a))
	assert.Less(t, a, b)
}

func TestNewSnowflakeGenerator_InvalidNode(t *testing.T) {
	_, err := NewSnowflakeGenerator(1024)
	assert.Error(t, err)
	_, err = NewSnowflakeGenerator(-1)
	assert.Error(t, err)
}
