package internal

// Event is the capability bundle described in spec §3/§4.4: a boolean
// "fired this wave" signal backed by a Participant.
type Event interface {
	AddCorrelatedNode(n *Participant)
	RemoveCorrelatedNode(n *Participant)
	Defer(n *Participant) error
	DeferBy(n *Participant, cb func()) error
	Value() bool
}

type participantEvent struct {
	owner   *Participant
	changed *bool
}

// EventFromParticipant bundles p with a pointer to the behaviour's own
// changed flag. The flag is owned by the behaviour, not the Event: the
// Event is just a read/defer façade over it.
func EventFromParticipant(p *Participant, changed *bool) Event {
	return &participantEvent{owner: p, changed: changed}
}

// AddCorrelatedNode pulls n into the wave whenever e's owning participant
// engages: it forwards to owner.AddCorrelatedNode(n), per spec §4.4.
func (e *participantEvent) AddCorrelatedNode(n *Participant) {
	e.owner.AddCorrelatedNode(n)
}

func (e *participantEvent) RemoveCorrelatedNode(n *Participant) {
	e.owner.RemoveCorrelatedNode(n)
}

// Defer declares that n waits for e's owning participant to resolve.
func (e *participantEvent) Defer(n *Participant) error {
	return n.Defer(e.owner)
}

func (e *participantEvent) DeferBy(n *Participant, cb func()) error {
	return n.DeferCb(e.owner, cb)
}

func (e *participantEvent) Value() bool {
	return *e.changed
}

type constFalseEvent struct{}

// ConstFalseEvent is the Event used by const-behaviours: correlation and
// defer are no-ops, and Value() is permanently false. A detached proxy's
// own event (proxyEvent) behaves the same way.
func ConstFalseEvent() Event { return constFalseEvent{} }

func (constFalseEvent) AddCorrelatedNode(*Participant)             {}
func (constFalseEvent) RemoveCorrelatedNode(*Participant)          {}
func (constFalseEvent) Defer(*Participant) error                   { return nil }
func (constFalseEvent) DeferBy(n *Participant, cb func()) error {
	// A const event still lets its consumer make progress: invoke the
	// callback immediately, as a detached proxy's event also does.
	cb()
	return nil
}
func (constFalseEvent) Value() bool { return false }
