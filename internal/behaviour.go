package internal

// Behaviour is the capability every node in the graph exposes: a current
// value, and an Event signalling whether that value changed this wave.
// Every derived behaviour (MapBehaviour, ApplicativeBehaviour, Flatten,
// Proxy) is a struct implementing this interface directly — there is no
// behaviour class hierarchy, per spec §9. Map, Applicative and Flatten each
// own a Participant; Proxy owns none and forwards to its peer's Event.
type Behaviour[T any] interface {
	Value() T
	Change() Event
}

// Disposable is implemented by derived behaviours that hold a correlation
// link to an upstream Event; Dispose releases it. Variables and consts have
// nothing to release and do not implement it.
type Disposable interface {
	Dispose()
}
