package internal

// Lifespan is the one-shot disposal-callback publisher from spec §4.9:
// registering multiple callbacks is allowed, and each fires exactly once
// when the scope ends. Registering after disposal raises (spec §8 item 7).
type Lifespan interface {
	OnDispose(cb func()) error
}

// foreverLifespan is the canonical infinite lifespan: registrations are
// simply dropped, since it never disposes.
type foreverLifespan struct{}

// Forever is the lifespan used by callers who never intend to dispose a
// behaviour explicitly.
var Forever Lifespan = foreverLifespan{}

func (foreverLifespan) OnDispose(func()) error { return nil }

// ScopedLifespan is a disposable Lifespan: calling Dispose runs every
// registered callback exactly once, in registration order, then clears the
// list so a second Dispose is a no-op.
type ScopedLifespan struct {
	callbacks []func()
	disposed  bool
}

// NewLifespan creates a fresh disposable scope.
func NewLifespan() *ScopedLifespan {
	return &ScopedLifespan{}
}

// OnDispose registers cb to run once l disposes. Fatal if l has already
// disposed, mirroring Session.addDetach's post-destroy rejection.
func (l *ScopedLifespan) OnDispose(cb func()) error {
	if l.disposed {
		return newFatal(ErrRegisterAfterDispose,
			"OnDispose called on a lifespan that already disposed")
	}
	l.callbacks = append(l.callbacks, cb)
	return nil
}

// Dispose fires every registered callback once. Safe to call more than
// once; only the first call has an effect.
func (l *ScopedLifespan) Dispose() {
	if l.disposed {
		return
	}
	l.disposed = true

	cbs := l.callbacks
	l.callbacks = nil
	for _, cb := range cbs {
		cb()
	}
}
