package internal

// Session groups proxy-detach callbacks, per spec §4.8/§4.9. Destroy runs
// every registered detach callback exactly once, then marks the session
// dead; further additions after that are fatal.
type Session struct {
	detach  []func()
	dead    bool
	lifespan Lifespan
}

// NewSession creates a Session tied to lifespan: if lifespan is ever
// disposed, the session is destroyed along with it.
func NewSession(lifespan Lifespan) *Session {
	s := &Session{lifespan: lifespan}
	lifespan.OnDispose(s.Destroy)
	return s
}

// addDetach registers a detach callback. Fatal if the session is already
// destroyed, per spec §7's session-lifetime misuse rule.
func (s *Session) addDetach(cb func()) error {
	if s.dead {
		return newFatal(ErrSessionDestroyed, "cannot attach a proxy to a destroyed session")
	}
	s.detach = append(s.detach, cb)
	return nil
}

// Destroy runs every detach callback once and marks the session dead.
// Calling Destroy on an already-dead session is a no-op.
func (s *Session) Destroy() {
	if s.dead {
		return
	}
	s.dead = true

	cbs := s.detach
	s.detach = nil
	for _, cb := range cbs {
		cb()
	}
}

// Dead reports whether Destroy has already run.
func (s *Session) Dead() bool { return s.dead }
