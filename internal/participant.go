package internal

// ParticipantState is the per-wave state machine a Participant moves
// through: READY -> ENGAGED -> RESOLVED, then back to READY at cleanup.
type ParticipantState int

const (
	StateReady ParticipantState = iota
	StateEngaged
	StateResolved
)

func (s ParticipantState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateEngaged:
		return "engaged"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Participant is the per-node wave participation handle described in
// spec §4.2: correlation, deferral, resolution and cleanup all flow through
// it. A Variable, MapBehaviour, ApplicativeBehaviour or Flatten owns exactly
// one Participant. A Proxy owns none: its Change event forwards to the peer's.
type Participant struct {
	// Name is used only for diagnostics; it never affects scheduling.
	Name string

	state ParticipantState
	wave  *Wave

	// correlated is the "pull into the wave" multiset: adds/removes are
	// counted individually so N adds require N removes to sever a link.
	correlated map[*Participant]int

	// preResolve holds pre-resolution callbacks queued via DeferCb /
	// InvokeBeforeResolve. They may install further defers.
	preResolve []func()

	// downstream holds participants waiting on this one to resolve.
	downstream []*Participant

	// waitingOn is diagnostics-only: the targets p is currently deferred on.
	// It is never consulted by the scheduling logic itself.
	waitingOn []*Participant

	pendingDeps int

	OnBoot     func(w *Wave)
	OnResolved func()
	OnCleanup  func()
}

// NewParticipant constructs a Participant with no hooks wired; callers set
// OnBoot/OnResolved/OnCleanup before first use.
func NewParticipant(name string) *Participant {
	return &Participant{Name: name}
}

// State reports the participant's current state machine position.
func (p *Participant) State() ParticipantState { return p.state }

// Wave reports the wave this participant is currently engaged in, or nil.
func (p *Participant) Wave() *Wave { return p.wave }

// Engage enrolls p into w. It is idempotent if p is already engaged in w,
// and fatal if p is engaged in a different wave or w is past engagement.
func (p *Participant) Engage(w *Wave) error {
	if p.wave == w && p.state != StateReady {
		return nil
	}
	if p.wave != nil && p.wave != w {
		return newFatal(ErrCrossWaveEngage,
			"participant %q is already engaged in another wave", p.Name)
	}
	if w.phase != PhaseNew && w.phase != PhaseEngagement {
		return newFatal(ErrEngageAfterClose,
			"participant %q engaged after wave engagement closed (phase=%s)", p.Name, w.phase)
	}

	p.wave = w
	p.state = StateEngaged
	w.onEngage(p)
	return nil
}

// AddCorrelatedNode registers n as one more occurrence in the correlated
// multiset: engaging p will pull n along into the same wave.
func (p *Participant) AddCorrelatedNode(n *Participant) {
	if p.correlated == nil {
		p.correlated = make(map[*Participant]int)
	}
	p.correlated[n]++
}

// RemoveCorrelatedNode removes one occurrence of n from the correlated
// multiset. Removing an occurrence that does not exist is a no-op.
func (p *Participant) RemoveCorrelatedNode(n *Participant) {
	if p.correlated == nil {
		return
	}
	count, ok := p.correlated[n]
	if !ok {
		return
	}
	if count <= 1 {
		delete(p.correlated, n)
	} else {
		p.correlated[n] = count - 1
	}
}

// Defer declares that p's resolution must wait until target resolves. If
// target is not ENGAGED in p's wave (different wave, already resolved, or
// never engaged), the defer is a benign no-op. Deferring from a participant
// that is itself not ENGAGED is fatal.
func (p *Participant) Defer(target *Participant) error {
	if p.state != StateEngaged {
		return newFatal(ErrDeferNotEngaged,
			"participant %q deferred while not engaged (state=%s)", p.Name, p.state)
	}
	if target.state != StateEngaged || target.wave != p.wave {
		return nil
	}

	p.pendingDeps++
	p.waitingOn = append(p.waitingOn, target)
	target.downstream = append(target.downstream, p)
	return nil
}

// InvokeBeforeResolve enqueues cb to run once p has no pending deps left to
// wait on, before p transitions to RESOLVED. cb may install new defers.
func (p *Participant) InvokeBeforeResolve(cb func()) {
	p.preResolve = append(p.preResolve, cb)
}

// DeferCb is Defer plus a paired pre-resolution callback: the callback runs
// once target (and anything else p is waiting on) has resolved.
func (p *Participant) DeferCb(target *Participant, cb func()) error {
	p.InvokeBeforeResolve(cb)
	return p.Defer(target)
}

// engageComplete pulls every correlated participant into the wave. Called
// during engagement draining; newly engaged correlated nodes enqueue
// themselves for the same treatment via Wave.onEngage.
func (p *Participant) engageComplete(w *Wave) error {
	for n := range p.correlated {
		if err := n.Engage(w); err != nil {
			return err
		}
	}
	return nil
}

// boot runs the user's OnBoot hook, then makes an immediate resolution
// attempt.
func (p *Participant) boot(w *Wave) error {
	if p.OnBoot != nil {
		p.OnBoot(w)
	}
	return p.tryResolve(w)
}

// tryResolve implements the data-flow resolution rule from spec §4.1: drain
// ready pre-resolution callbacks while there are no pending deps, then
// resolve if nothing is left to wait for.
func (p *Participant) tryResolve(w *Wave) error {
	if p.state == StateResolved {
		return nil
	}

	for p.pendingDeps == 0 && len(p.preResolve) > 0 {
		cb := p.preResolve[0]
		p.preResolve = p.preResolve[1:]
		cb()
	}

	if p.pendingDeps > 0 {
		return nil
	}

	p.state = StateResolved
	if p.OnResolved != nil {
		p.OnResolved()
	}
	w.onResolved(p)
	return nil
}

// notifyDeps drains the downstream set, telling each waiting participant
// that p has resolved. Draining (rather than recursing into tryResolve
// directly from here) is what keeps resolution iterative.
func (p *Participant) notifyDeps(w *Wave) error {
	deps := p.downstream
	p.downstream = nil

	for _, d := range deps {
		if err := d.depResolved(w); err != nil {
			return err
		}
	}
	return nil
}

func (p *Participant) depResolved(w *Wave) error {
	p.pendingDeps--
	if p.pendingDeps == 0 {
		return p.tryResolve(w)
	}
	return nil
}

// rejectDisposeWhileEngaged panics with ErrDisposeDuringEngage if p is
// currently participating in a wave. Per spec §5, disposing a node that is
// engaged in its own active wave is undefined and must be rejected; Dispose
// methods have no error return (they double as Lifespan callbacks, typed
// func()), so this follows the engine's fatal-error convention by panicking
// with the same *Error type every other engine misuse raises.
func (p *Participant) rejectDisposeWhileEngaged() {
	if p.state != StateReady {
		panic(newFatal(ErrDisposeDuringEngage,
			"participant %q disposed while %s in its own wave", p.Name, p.state))
	}
}

// cleanup resets per-wave state: RESOLVED -> READY, hooks run, flags clear.
func (p *Participant) cleanup() {
	p.state = StateReady
	p.wave = nil
	p.pendingDeps = 0
	p.preResolve = nil
	p.downstream = nil
	p.waitingOn = nil
	if p.OnCleanup != nil {
		p.OnCleanup()
	}
}
