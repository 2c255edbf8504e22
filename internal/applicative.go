package internal

// ApplicativeBehaviour derives R by applying a behaviour-valued function to
// a behaviour-valued argument: fn.Value()(base.Value()), per spec §4.6.
type ApplicativeBehaviour[S, R any] struct {
	participant *Participant
	event       Event

	fn   Behaviour[func(S) R]
	base Behaviour[S]

	currentValue R
	changed      bool
	equal        func(a, b R) bool
}

// NewApplicativeBehaviour constructs fn :> base.
func NewApplicativeBehaviour[S, R any](lifespan Lifespan, name string, fn Behaviour[func(S) R], base Behaviour[S]) *ApplicativeBehaviour[S, R] {
	bind := NewBindContext(lifespan)

	a := &ApplicativeBehaviour[S, R]{
		fn:           fn,
		base:         base,
		currentValue: fn.Value()(base.Value()),
		equal:        EqualityOf[R](),
	}
	a.participant = NewParticipant(name)
	a.event = EventFromParticipant(a.participant, &a.changed)

	fn.Change().AddCorrelatedNode(a.participant)
	base.Change().AddCorrelatedNode(a.participant)

	a.participant.OnBoot = func(w *Wave) {
		_ = fn.Change().Defer(a.participant)
		_ = base.Change().Defer(a.participant)
	}
	a.participant.OnResolved = func() {
		if !fn.Change().Value() && !base.Change().Value() {
			return
		}
		next := fn.Value()(base.Value())
		if !a.equal(next, a.currentValue) {
			a.currentValue = next
			a.changed = true
		}
	}
	a.participant.OnCleanup = func() {
		a.changed = false
	}

	bind.Lifespan.OnDispose(a.Dispose)
	bind.Participant.EngageIfActive(a.participant)

	return a
}

func (a *ApplicativeBehaviour[S, R]) Value() R     { return a.currentValue }
func (a *ApplicativeBehaviour[S, R]) Change() Event { return a.event }

// Dispose severs the correlation links to both fn's and base's change
// events. Panics if a's participant is engaged in the wave currently
// propagating (spec §5).
func (a *ApplicativeBehaviour[S, R]) Dispose() {
	a.participant.rejectDisposeWhileEngaged()
	a.fn.Change().RemoveCorrelatedNode(a.participant)
	a.base.Change().RemoveCorrelatedNode(a.participant)
}
