package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedLifespanDisposesOnce(t *testing.T) {
	ls := NewLifespan()

	calls := 0
	require.NoError(t, ls.OnDispose(func() { calls++ }))
	require.NoError(t, ls.OnDispose(func() { calls++ }))

	ls.Dispose()
	assert.Equal(t, 2, calls)

	ls.Dispose() // second call must not re-run callbacks
	assert.Equal(t, 2, calls)
}

func TestScopedLifespanOnDisposeAfterDisposal(t *testing.T) {
	ls := NewLifespan()
	ls.Dispose()

	ran := false
	err := ls.OnDispose(func() { ran = true })
	require.Error(t, err)

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, ErrRegisterAfterDispose, engineErr.Code)
	assert.False(t, ran, "a callback registered after disposal must not run")
}

func TestForeverLifespanNeverDisposes(t *testing.T) {
	calls := 0
	require.NoError(t, Forever.OnDispose(func() { calls++ }))
	assert.Equal(t, 0, calls)
}
