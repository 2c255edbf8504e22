package internal

// Flatten collapses a Behaviour[Behaviour[T]] to a Behaviour[T] — the
// monadic join described in spec §4.7. It is the one combinator that
// restructures its own correlations mid-wave: the pre-resolution callback
// installed in onBoot is what lets it discover, only after source resolves,
// which inner behaviour it must actually wait on this wave.
type Flatten[T any] struct {
	participant *Participant
	event       Event

	source Behaviour[Behaviour[T]]
	inner  Behaviour[T]

	currentValue T
	changed      bool
	equal        func(a, b T) bool
}

// NewFlatten constructs join(source).
func NewFlatten[T any](lifespan Lifespan, name string, source Behaviour[Behaviour[T]]) *Flatten[T] {
	bind := NewBindContext(lifespan)

	f := &Flatten[T]{
		source: source,
		inner:  source.Value(),
		equal:  EqualityOf[T](),
	}
	f.currentValue = f.inner.Value()

	f.participant = NewParticipant(name)
	f.event = EventFromParticipant(f.participant, &f.changed)

	source.Change().AddCorrelatedNode(f.participant)
	f.inner.Change().AddCorrelatedNode(f.participant)

	f.participant.OnBoot = func(w *Wave) {
		_ = source.Change().Defer(f.participant)
		f.participant.InvokeBeforeResolve(func() {
			// Only safe to read source.Value() here: source has already
			// resolved (the defer above guarantees it), so this is the
			// post-resolution selection, possibly a brand-new inner that
			// never correlated into this wave on its own.
			selected := source.Value()
			_ = selected.Change().Defer(f.participant)
		})
	}
	f.participant.OnResolved = func() {
		sourceChanged := source.Change().Value()
		innerChangedBefore := f.inner.Change().Value()
		if !sourceChanged && !innerChangedBefore {
			return
		}

		if sourceChanged {
			next := source.Value()
			f.inner.Change().RemoveCorrelatedNode(f.participant)
			f.inner = next
			f.inner.Change().AddCorrelatedNode(f.participant)
		}

		next := f.inner.Value()
		if !f.equal(next, f.currentValue) {
			f.currentValue = next
			f.changed = true
		}
	}
	f.participant.OnCleanup = func() {
		f.changed = false
	}

	bind.Lifespan.OnDispose(f.Dispose)
	bind.Participant.EngageIfActive(f.participant)

	return f
}

func (f *Flatten[T]) Value() T     { return f.currentValue }
func (f *Flatten[T]) Change() Event { return f.event }

// Dispose severs both the source correlation and the currently-selected
// inner's correlation. Panics if f's participant is engaged in the wave
// currently propagating (spec §5).
func (f *Flatten[T]) Dispose() {
	f.participant.rejectDisposeWhileEngaged()
	f.source.Change().RemoveCorrelatedNode(f.participant)
	f.inner.Change().RemoveCorrelatedNode(f.participant)
}
