package internal

// Variable is a graph leaf: a value set imperatively, with no upstream
// dependencies. Its participant has nothing to defer on, so it resolves
// immediately at boot (spec §4.3).
type Variable[T any] struct {
	participant *Participant
	event       Event

	value        T
	preWaveValue T
	changed      bool

	equal func(a, b T) bool
}

// NewVariable constructs a Variable holding initial.
func NewVariable[T any](name string, initial T) *Variable[T] {
	v := &Variable[T]{
		value: initial,
		equal: EqualityOf[T](),
	}
	v.participant = NewParticipant(name)
	v.participant.OnResolved = func() {
		v.changed = !v.equal(v.value, v.preWaveValue)
	}
	v.participant.OnCleanup = func() {
		v.changed = false
	}
	v.event = EventFromParticipant(v.participant, &v.changed)
	return v
}

// Value returns the current value, stable between waves.
func (v *Variable[T]) Value() T { return v.value }

// Change exposes the "changed this wave" Event.
func (v *Variable[T]) Change() Event { return v.event }

// Participant exposes the backing participant for combinators that
// correlate against a Variable directly.
func (v *Variable[T]) Participant() *Participant { return v.participant }

// Set opens (or joins) a wave and writes newVal to v within it.
func (v *Variable[T]) Set(opts Options, newVal T) error {
	return Group(opts, func(w *Wave) {
		v.WavedSet(newVal, w)
	})
}

// WavedSet writes newVal to v inside the already-open wave w. Per spec
// §4.3: compares newVal against the current value by semantic equality; on
// a genuine change it mutates the value and engages the participant (first
// write of the wave snapshots the pre-wave value so change.Value() reflects
// only the *net* change across however many times WavedSet is called this
// wave).
func (v *Variable[T]) WavedSet(newVal T, w *Wave) error {
	if v.equal(v.value, newVal) {
		return nil
	}

	if v.participant.state != StateEngaged {
		v.preWaveValue = v.value
		if err := v.participant.Engage(w); err != nil {
			return err
		}
	}

	v.value = newVal
	return nil
}
