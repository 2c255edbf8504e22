package internal

// Proxy wraps a peer Behaviour and can be severed from it by destroying the
// Session it was created under, per spec §4.8. Value() always reads
// through to the peer; it is the Proxy's own Change Event that goes inert
// on detach.
type Proxy[T any] struct {
	peer     Behaviour[T]
	event    Event
	attached bool
}

// NewProxy creates a Proxy over peer, registered to detach when session is
// destroyed. Fatal if session has already been destroyed.
func NewProxy[T any](session *Session, peer Behaviour[T]) (*Proxy[T], error) {
	p := &Proxy[T]{peer: peer, attached: true}
	p.event = newProxyEvent(func() bool { return p.attached }, peer.Change())

	if err := session.addDetach(p.detach); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Proxy[T]) Value() T      { return p.peer.Value() }
func (p *Proxy[T]) Change() Event { return p.event }

func (p *Proxy[T]) detach() {
	p.attached = false
	p.event.(*proxyEvent).releaseAll()
}

// proxyEvent is the Event a Proxy exposes: while attached it forwards every
// operation straight to the peer's Event; once detached, correlation/defer
// become no-ops and Value() reads false, except DeferBy, which still
// invokes its callback immediately so a detached consumer still progresses
// (spec §4.8). added tracks every node a consumer correlated through this
// proxy while attached, so detach can remove each one from the peer in turn
// (spec §4.8: "detach() removes the proxy's correlation link from the peer").
type proxyEvent struct {
	attached func() bool
	peer     Event
	added    map[*Participant]int
}

func newProxyEvent(attached func() bool, peer Event) Event {
	return &proxyEvent{attached: attached, peer: peer, added: make(map[*Participant]int)}
}

func (e *proxyEvent) AddCorrelatedNode(n *Participant) {
	if !e.attached() {
		return
	}
	e.peer.AddCorrelatedNode(n)
	e.added[n]++
}

func (e *proxyEvent) RemoveCorrelatedNode(n *Participant) {
	if !e.attached() {
		return
	}
	e.peer.RemoveCorrelatedNode(n)
	if count := e.added[n]; count <= 1 {
		delete(e.added, n)
	} else {
		e.added[n] = count - 1
	}
}

// releaseAll removes every correlation link this proxy ever forwarded to the
// peer and is still outstanding, so detach leaves the peer's correlation
// count at its pre-proxy baseline.
func (e *proxyEvent) releaseAll() {
	for n, count := range e.added {
		for i := 0; i < count; i++ {
			e.peer.RemoveCorrelatedNode(n)
		}
	}
	e.added = make(map[*Participant]int)
}

func (e *proxyEvent) Defer(n *Participant) error {
	if !e.attached() {
		return nil
	}
	return e.peer.Defer(n)
}

func (e *proxyEvent) DeferBy(n *Participant, cb func()) error {
	if !e.attached() {
		cb()
		return nil
	}
	return e.peer.DeferBy(n, cb)
}

func (e *proxyEvent) Value() bool {
	if !e.attached() {
		return false
	}
	return e.peer.Value()
}
