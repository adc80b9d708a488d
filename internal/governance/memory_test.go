package governance

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFIFOEviction(t *testing.T) {
	t.Parallel()

	m := NewMemory(0)
	for i := 0; i < 15; i++ {
		m.Append(fmt.Sprintf("SELECT %d", i), nil, time.Now())
	}

	assert.Equal(t, MemoryCapacity, m.Len())

	snap := m.Snapshot()
	require.Len(t, snap, MemoryCapacity)
	// Oldest five were evicted; the survivors are 5..14 in order.
	assert.Equal(t, "SELECT 5", snap[0].Statement)
	assert.Equal(t, "SELECT 14", snap[9].Statement)
}

func TestMemorySnapshotIsACopy(t *testing.T) {
	t.Parallel()

	m := NewMemory(0)
	m.Append("SELECT 1", nil, time.Now())

	snap := m.Snapshot()
	snap[0].Statement = "mutated"

	assert.Equal(t, "SELECT 1", m.Snapshot()[0].Statement)
}

func TestMemoryConcurrentAppend(t *testing.T) {
	t.Parallel()

	m := NewMemory(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Append(fmt.Sprintf("SELECT %d", n), nil, time.Now())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, MemoryCapacity, m.Len())
}
