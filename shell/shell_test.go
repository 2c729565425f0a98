package shell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBlocksUntilQuit(t *testing.T) {
	s := New()
	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	select {
	case <-done:
		t.Fatal("Run returned before Quit")
	case <-time.After(10 * time.Millisecond):
	}

	s.Quit()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestQuitIsIdempotent(t *testing.T) {
	s := New()
	s.Quit()
	s.Quit()
	assert.NoError(t, s.Run())
}
