package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	l.Debugw("should be discarded", "k", "v")
}

func TestNewFallsBackOnInvalidLevel(t *testing.T) {
	l := New("not-a-level")
	require.NotNil(t, l)
}

func TestNewValidLevel(t *testing.T) {
	l := New("warn")
	require.NotNil(t, l)
}
