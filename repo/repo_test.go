package repo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCachePutGet(t *testing.T) {
	c := NewMergeCache()

	_, ok := c.Get("base", "branch")
	assert.False(t, ok)

	c.Put("base", "branch", "merged")
	got, ok := c.Get("base", "branch")
	require.True(t, ok)
	assert.Equal(t, Commit("merged"), got)
	assert.Equal(t, 1, c.Len())

	// direction matters
	_, ok = c.Get("branch", "base")
	assert.False(t, ok)
}

func TestMergeCacheOverwrite(t *testing.T) {
	c := NewMergeCache()
	c.Put("b", "f", "m1")
	c.Put("b", "f", "m2")

	got, _ := c.Get("b", "f")
	assert.Equal(t, Commit("m2"), got)
	assert.Equal(t, 1, c.Len())
}

func TestMergeCacheConcurrent(t *testing.T) {
	c := NewMergeCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put("base", "branch", "m")
				c.Get("base", "branch")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}
