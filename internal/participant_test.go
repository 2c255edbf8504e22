package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantEngage(t *testing.T) {
	t.Run("idempotent within the same wave", func(t *testing.T) {
		w := NewWave(DefaultOptions())
		p := NewParticipant("p")

		require.NoError(t, p.Engage(w))
		require.NoError(t, p.Engage(w))
		assert.Equal(t, StateEngaged, p.State())
	})

	t.Run("fatal across two different waves", func(t *testing.T) {
		w1 := NewWave(DefaultOptions())
		w2 := NewWave(DefaultOptions())
		p := NewParticipant("p")

		require.NoError(t, p.Engage(w1))
		err := p.Engage(w2)
		require.Error(t, err)

		var engineErr *Error
		require.ErrorAs(t, err, &engineErr)
		assert.Equal(t, ErrCrossWaveEngage, engineErr.Code)
	})

	t.Run("fatal after engagement closes", func(t *testing.T) {
		w := NewWave(DefaultOptions())
		p := NewParticipant("p")
		require.NoError(t, p.Engage(w))
		require.NoError(t, w.Run())

		late := NewParticipant("late")
		err := late.Engage(w)
		require.Error(t, err)

		var engineErr *Error
		require.ErrorAs(t, err, &engineErr)
		assert.Equal(t, ErrEngageAfterClose, engineErr.Code)
	})
}

func TestParticipantDefer(t *testing.T) {
	t.Run("fatal when deferring from a non-engaged participant", func(t *testing.T) {
		target := NewParticipant("target")
		p := NewParticipant("p")

		err := p.Defer(target)
		require.Error(t, err)

		var engineErr *Error
		require.ErrorAs(t, err, &engineErr)
		assert.Equal(t, ErrDeferNotEngaged, engineErr.Code)
	})

	t.Run("benign no-op deferring against a non-engaged target", func(t *testing.T) {
		w := NewWave(DefaultOptions())
		p := NewParticipant("p")
		require.NoError(t, p.Engage(w))

		target := NewParticipant("target") // never engaged

		require.NoError(t, p.Defer(target))
		assert.Equal(t, 0, p.pendingDeps)
	})
}

func TestParticipantCorrelationMultiset(t *testing.T) {
	owner := NewParticipant("owner")
	dep := NewParticipant("dep")

	owner.AddCorrelatedNode(dep)
	owner.AddCorrelatedNode(dep)
	assert.Equal(t, 2, owner.correlated[dep])

	owner.RemoveCorrelatedNode(dep)
	assert.Equal(t, 1, owner.correlated[dep])

	owner.RemoveCorrelatedNode(dep)
	_, present := owner.correlated[dep]
	assert.False(t, present)

	// removing an occurrence that does not exist is a no-op
	owner.RemoveCorrelatedNode(dep)
	_, present = owner.correlated[dep]
	assert.False(t, present)
}

func TestWaveConvergesSimpleChain(t *testing.T) {
	w := NewWave(DefaultOptions())

	upstream := NewParticipant("upstream")
	downstream := NewParticipant("downstream")
	upstream.AddCorrelatedNode(downstream)

	var order []string
	upstream.OnResolved = func() { order = append(order, "upstream") }
	downstream.OnBoot = func(wv *Wave) { _ = downstream.Defer(upstream) }
	downstream.OnResolved = func() { order = append(order, "downstream") }

	require.NoError(t, upstream.Engage(w))
	require.NoError(t, w.Run())

	assert.Equal(t, []string{"upstream", "downstream"}, order)
	assert.Equal(t, StateReady, upstream.State())
	assert.Equal(t, StateReady, downstream.State())
}

func TestWaveFailsToConvergeOnCycle(t *testing.T) {
	w := NewWave(DefaultOptions())

	a := NewParticipant("a")
	b := NewParticipant("b")
	phantom := NewParticipant("phantom")
	a.AddCorrelatedNode(b)
	a.AddCorrelatedNode(phantom)

	// b and phantom defer on each other: a genuine cycle that can never
	// drain, since neither can resolve before the other.
	b.OnBoot = func(wv *Wave) { _ = b.Defer(phantom) }
	phantom.OnBoot = func(wv *Wave) { _ = phantom.Defer(b) }

	require.NoError(t, a.Engage(w))
	err := w.Run()
	require.Error(t, err)

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, ErrWaveDidNotConverge, engineErr.Code)
	assert.Contains(t, engineErr.Diagnostics, "phantom")
}

func TestWaveStepLimit(t *testing.T) {
	opts := Options{MaxResolutionSteps: 2}
	w := NewWave(opts)

	// A chain of three participants needs three notify-drain steps, one
	// more than the ceiling allows.
	p1 := NewParticipant("p1")
	p2 := NewParticipant("p2")
	p3 := NewParticipant("p3")
	p1.AddCorrelatedNode(p2)
	p2.AddCorrelatedNode(p3)

	p2.OnBoot = func(wv *Wave) { _ = p2.Defer(p1) }
	p3.OnBoot = func(wv *Wave) { _ = p3.Defer(p2) }

	require.NoError(t, p1.Engage(w))
	err := w.Run()
	require.Error(t, err)

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, ErrWaveStepLimitHit, engineErr.Code)
}
