package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// registry tracks, per goroutine, the Wave currently being driven and the
// proxy Session currently active. Keying by goroutine id is what makes
// "opening a new wave while one is active" structurally impossible across
// goroutines and detectable within one, matching spec §5's single
// conceptual thread model.
type registry struct {
	mu     sync.Mutex
	waves  map[int64]*Wave
	active map[int64]*Session
}

var runtimeRegistry = &registry{
	waves:  make(map[int64]*Wave),
	active: make(map[int64]*Session),
}

// ActiveWave returns the wave currently open on the calling goroutine, or
// nil if none is active.
func ActiveWave() *Wave {
	gid := goid.Get()

	runtimeRegistry.mu.Lock()
	defer runtimeRegistry.mu.Unlock()
	return runtimeRegistry.waves[gid]
}

func setActiveWave(w *Wave) {
	gid := goid.Get()

	runtimeRegistry.mu.Lock()
	defer runtimeRegistry.mu.Unlock()
	if w == nil {
		delete(runtimeRegistry.waves, gid)
		return
	}
	runtimeRegistry.waves[gid] = w
}

// Group runs body with either a freshly-opened Wave, or the Wave already
// active on this goroutine if one exists (nested Group joins the enclosing
// transaction, per spec §4.1/§5). The Wave passed to body is only run (and
// only cleared from the registry) by the outermost call.
func Group(opts Options, body func(w *Wave)) error {
	if w := ActiveWave(); w != nil {
		body(w)
		return nil
	}

	w := NewWave(opts)
	setActiveWave(w)
	defer setActiveWave(nil)

	body(w)

	Logger().Debug("wave opened", "engaged", w.engagedCount)
	if err := w.Run(); err != nil {
		Logger().Error("wave failed to converge", "error", err)
		return err
	}
	Logger().Debug("wave cleaned up", "resolved", w.resolvedCount)
	return nil
}

// ActiveSession returns the proxy Session currently active on the calling
// goroutine, or nil.
func ActiveSession() *Session {
	gid := goid.Get()

	runtimeRegistry.mu.Lock()
	defer runtimeRegistry.mu.Unlock()
	return runtimeRegistry.active[gid]
}

func setActiveSession(s *Session) {
	gid := goid.Get()

	runtimeRegistry.mu.Lock()
	defer runtimeRegistry.mu.Unlock()
	if s == nil {
		delete(runtimeRegistry.active, gid)
		return
	}
	runtimeRegistry.active[gid] = s
}

// OpenSession returns the Session active on the calling goroutine, joining
// it like Group joins an enclosing wave; if none is active it creates one
// tied to lifespan and registers it as active until lifespan disposes.
func OpenSession(lifespan Lifespan) *Session {
	if s := ActiveSession(); s != nil {
		return s
	}

	s := NewSession(lifespan)
	setActiveSession(s)
	lifespan.OnDispose(func() { setActiveSession(nil) })
	return s
}
