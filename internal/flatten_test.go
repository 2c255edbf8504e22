package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenSwitchesInner(t *testing.T) {
	inner1 := NewVariable("inner1", 1)
	inner2 := NewVariable("inner2", 2)

	selector := NewVariable[Behaviour[int]]("selector", inner1)
	joined := NewFlatten[int](Forever, "joined", selector)

	assert.Equal(t, 1, joined.Value())

	require.NoError(t, inner1.Set(DefaultOptions(), 11))
	assert.Equal(t, 11, joined.Value())
	// joined.Change().Value() is only true during the wave that produced
	// this value; by the time Set has returned, cleanup has already reset
	// it to false, so it is not asserted here.

	require.NoError(t, selector.Set(DefaultOptions(), inner2))
	assert.Equal(t, 2, joined.Value())

	// After the switch, joined no longer tracks inner1.
	require.NoError(t, inner1.Set(DefaultOptions(), 99))
	assert.Equal(t, 2, joined.Value())

	require.NoError(t, inner2.Set(DefaultOptions(), 22))
	assert.Equal(t, 22, joined.Value())
}

func TestMapDisposeSeversCorrelation(t *testing.T) {
	source := NewVariable("source", 1)
	calls := 0
	mapped := NewMapBehaviour[int, int](Forever, "mapped", source, func(x int) int {
		calls++
		return x * 2
	})
	baseline := calls

	mapped.Dispose()

	require.NoError(t, source.Set(DefaultOptions(), 5))
	assert.Equal(t, baseline, calls, "disposed map must not recompute")
	assert.Equal(t, 2, mapped.Value(), "value freezes at its last computed result")
}

func TestDisposeWhileEngagedPanics(t *testing.T) {
	source := NewVariable("source", 1)
	mapped := NewMapBehaviour[int, int](Forever, "mapped", source, func(x int) int { return x })

	w := NewWave(DefaultOptions())
	require.NoError(t, mapped.participant.Engage(w))

	assert.Panics(t, func() { mapped.Dispose() },
		"disposing a node engaged in its own active wave must be rejected")
}

func TestApplicativeRecomputesOnEitherSide(t *testing.T) {
	fnSource := NewVariable("fn-source", 1)
	base := NewVariable("base", 10)

	fn := NewMapBehaviour[int, func(int) int](Forever, "fn", fnSource, func(x int) func(int) int {
		return func(y int) int { return x + y }
	})
	app := NewApplicativeBehaviour[int, int](Forever, "app", fn, base)

	assert.Equal(t, 11, app.Value())

	require.NoError(t, base.Set(DefaultOptions(), 20))
	assert.Equal(t, 21, app.Value())

	require.NoError(t, fnSource.Set(DefaultOptions(), 5))
	assert.Equal(t, 25, app.Value())
}
