package internal

// MapBehaviour derives T from a source Behaviour[S] via a pure mapper, per
// spec §4.5.
type MapBehaviour[S, T any] struct {
	participant *Participant
	event       Event

	mapper func(S) T
	source Behaviour[S]

	currentValue T
	changed      bool
	equal        func(a, b T) bool
}

// NewMapBehaviour constructs f(source), correlated to source's change event
// for as long as it is not disposed.
func NewMapBehaviour[S, T any](lifespan Lifespan, name string, source Behaviour[S], mapper func(S) T) *MapBehaviour[S, T] {
	bind := NewBindContext(lifespan)

	m := &MapBehaviour[S, T]{
		mapper:       mapper,
		source:       source,
		currentValue: mapper(source.Value()),
		equal:        EqualityOf[T](),
	}
	m.participant = NewParticipant(name)
	m.event = EventFromParticipant(m.participant, &m.changed)

	source.Change().AddCorrelatedNode(m.participant)

	m.participant.OnBoot = func(w *Wave) {
		_ = source.Change().Defer(m.participant)
	}
	m.participant.OnResolved = func() {
		if !source.Change().Value() {
			return
		}
		next := mapper(source.Value())
		if !m.equal(next, m.currentValue) {
			m.currentValue = next
			m.changed = true
		}
	}
	m.participant.OnCleanup = func() {
		m.changed = false
	}

	bind.Lifespan.OnDispose(m.Dispose)
	bind.Participant.EngageIfActive(m.participant)

	return m
}

func (m *MapBehaviour[S, T]) Value() T     { return m.currentValue }
func (m *MapBehaviour[S, T]) Change() Event { return m.event }

// Dispose severs the correlation link to the source's change event. After
// Dispose, m no longer updates. Panics if m's participant is engaged in the
// wave currently propagating (spec §5).
func (m *MapBehaviour[S, T]) Dispose() {
	m.participant.rejectDisposeWhileEngaged()
	m.source.Change().RemoveCorrelatedNode(m.participant)
}
