// Package wave implements a small functional-reactive runtime: a graph of
// stateful behaviours recomputed by a transactional propagation engine (the
// wave) whenever their inputs change. See the package's internal engine for
// the scheduling details; this file is the public surface over it.
package wave

import (
	"log/slog"

	"github.com/wavebound/wave/internal"
)

// Behaviour is a node holding a current value and a boolean change event.
// Variable, the result of Map/Applicative/Join, and Proxy all implement it.
type Behaviour[T any] interface {
	// Value returns the current value, stable between waves.
	Value() T

	// Change exposes the "did this change this wave" signal.
	Change() Event
}

// Event is a boolean signal bound to a node's participation in the current
// wave, used internally by combinators to schedule themselves relative to
// their dependencies. Most callers only ever read Value().
type Event = internal.Event

// Lifespan registers disposal callbacks fired when a scope ends.
type Lifespan = internal.Lifespan

// Forever is the lifespan used by behaviours that are never explicitly
// disposed.
var Forever = internal.Forever

// NewLifespan creates a disposable scope: calling its Dispose method runs
// every registered callback once.
func NewLifespan() *internal.ScopedLifespan {
	return internal.NewLifespan()
}

// Session groups proxy detach callbacks; destroying it detaches every proxy
// created against it.
type Session = internal.Session

// ProxySession returns the Session active on the calling goroutine, joining
// it the way Group joins an enclosing wave; if none is active it creates one
// tied to lifespan, destroyed when lifespan disposes.
func ProxySession(lifespan Lifespan) *Session {
	return internal.OpenSession(lifespan)
}

// Options tunes a Wave's safety limits. DefaultOptions is used by Group.
type Options = internal.Options

// DefaultOptions returns the resolution-step ceiling Group uses by default.
func DefaultOptions() Options { return internal.DefaultOptions() }

// SetLogger lets an embedding application observe wave lifecycle events
// (wave opened, wave failed, wave cleaned up) at slog.LevelDebug/LevelError.
// The default discards everything; this is purely observational and never
// affects propagation outcomes.
func SetLogger(l *slog.Logger) {
	internal.SetLogger(l)
}

// Variable is a graph leaf holding a value that is set imperatively.
type Variable[T any] struct {
	v *internal.Variable[T]
}

// NewVariable creates a read/write behaviour seeded with initial.
func NewVariable[T any](initial T) *Variable[T] {
	return &Variable[T]{v: internal.NewVariable[T]("", initial)}
}

// Named is like NewVariable but attaches name for diagnostics rendering.
func Named[T any](name string, initial T) *Variable[T] {
	return &Variable[T]{v: internal.NewVariable[T](name, initial)}
}

func (v *Variable[T]) Value() T      { return v.v.Value() }
func (v *Variable[T]) Change() Event { return v.v.Change() }

// Set opens (or joins) a wave and writes newVal into v.
func (v *Variable[T]) Set(newVal T) error {
	return v.v.Set(internal.DefaultOptions(), newVal)
}

// WavedSet writes newVal into v inside the wave already active on w.
func (v *Variable[T]) WavedSet(newVal T, w *internal.Wave) error {
	return v.v.WavedSet(newVal, w)
}

// Const wraps a fixed value as a Behaviour whose change event is
// permanently false.
func Const[T any](value T) Behaviour[T] {
	return internal.NewConstBehaviour(value)
}

// Map derives a Behaviour[T] by applying f to source's value whenever
// source changes.
func Map[S, T any](lifespan Lifespan, source Behaviour[S], f func(S) T) Behaviour[T] {
	return internal.NewMapBehaviour[S, T](lifespan, "", source, f)
}

// Applicative derives a Behaviour[R] by applying fn's current function
// value to base's current value whenever either changes.
func Applicative[S, R any](lifespan Lifespan, fn Behaviour[func(S) R], base Behaviour[S]) Behaviour[R] {
	return internal.NewApplicativeBehaviour[S, R](lifespan, "", fn, base)
}

// Join collapses a Behaviour[Behaviour[T]] into a Behaviour[T], switching
// which inner behaviour it tracks whenever source's selection changes.
func Join[T any](lifespan Lifespan, source Behaviour[Behaviour[T]]) Behaviour[T] {
	return internal.NewFlatten[T](lifespan, "", joinSource[T]{source})
}

// joinSource presents a Behaviour[Behaviour[T]] as the engine's
// internal.Behaviour[internal.Behaviour[T]].
type joinSource[T any] struct{ src Behaviour[Behaviour[T]] }

func (j joinSource[T]) Value() internal.Behaviour[T] { return j.src.Value() }
func (j joinSource[T]) Change() Event                { return j.src.Change() }

// NewProxy creates a detachable passthrough over peer, tied to session.
// Fatal if session has already been destroyed.
func NewProxy[T any](session *Session, peer Behaviour[T]) (Behaviour[T], error) {
	return internal.NewProxy[T](session, peer)
}

// Group runs body with an open Wave: a fresh one if none is active on the
// calling goroutine, or the enclosing one if body is called from inside
// another Group. All Variable writes inside body are part of one
// propagation transaction.
func Group(body func(w *internal.Wave)) error {
	return internal.Group(internal.DefaultOptions(), body)
}

// GroupWithOptions is Group with a caller-supplied resolution-step
// ceiling, for graphs large enough to need one above DefaultOptions.
func GroupWithOptions(opts Options, body func(w *internal.Wave)) error {
	return internal.Group(opts, body)
}

// Wave is a single propagation transaction.
type Wave = internal.Wave

// Error is the fatal error type raised by engine misuse or a wave that
// fails to converge.
type Error = internal.Error
