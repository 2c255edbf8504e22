package internal

import "log/slog"

// WavePhase is the state machine a Wave moves through exactly once:
// NEW -> ENGAGEMENT -> RESOLUTION -> CLEANUP -> DEAD.
type WavePhase int

const (
	PhaseNew WavePhase = iota
	PhaseEngagement
	PhaseResolution
	PhaseCleanup
	PhaseDead
)

func (ph WavePhase) String() string {
	switch ph {
	case PhaseNew:
		return "new"
	case PhaseEngagement:
		return "engagement"
	case PhaseResolution:
		return "resolution"
	case PhaseCleanup:
		return "cleanup"
	case PhaseDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Wave is a single propagation transaction, per spec §4.1. It is not safe
// for concurrent use by design: exactly one goroutine drives it, from
// opening through Run.
type Wave struct {
	opts  Options
	phase WavePhase

	engagementQueue []*Participant
	bootQueue       []*Participant
	resolveNotify   []*Participant

	engagedCount  int
	resolvedCount int
	resolved      []*Participant // in resolution order, for cleanup
}

// NewWave constructs an unopened Wave. Call Engage to seed it and Run to
// drive it through engagement, resolution and cleanup.
func NewWave(opts Options) *Wave {
	return &Wave{opts: opts}
}

// Phase reports the wave's current lifecycle phase.
func (w *Wave) Phase() WavePhase { return w.phase }

func (w *Wave) onEngage(p *Participant) {
	if w.phase == PhaseNew {
		w.phase = PhaseEngagement
	}
	w.engagementQueue = append(w.engagementQueue, p)
	w.engagedCount++
}

func (w *Wave) onResolved(p *Participant) {
	w.resolvedCount++
	w.resolved = append(w.resolved, p)
	w.resolveNotify = append(w.resolveNotify, p)
}

// Engage seeds the wave with an initial participant (typically a Variable
// whose value is being set). Safe to call repeatedly before Run; each call
// is itself subject to Participant.Engage's own rules.
func (w *Wave) Engage(p *Participant) error {
	return p.Engage(w)
}

// Run drives the wave through engagement, resolution and cleanup. It
// returns a fatal *Error if the wave fails to converge or if a safety
// ceiling is exceeded; on any error the wave is left DEAD and its
// participants' state must be treated as corrupt by the caller.
func (w *Wave) Run() error {
	if err := w.runEngagement(); err != nil {
		w.phase = PhaseDead
		return err
	}
	if err := w.runResolution(); err != nil {
		w.phase = PhaseDead
		return err
	}
	w.runCleanup()
	return nil
}

func (w *Wave) runEngagement() error {
	for len(w.engagementQueue) > 0 {
		p := w.engagementQueue[0]
		w.engagementQueue = w.engagementQueue[1:]

		if err := p.engageComplete(w); err != nil {
			return err
		}
		w.bootQueue = append(w.bootQueue, p)
	}
	w.phase = PhaseResolution
	return nil
}

func (w *Wave) runResolution() error {
	for _, p := range w.bootQueue {
		if err := p.boot(w); err != nil {
			return err
		}
	}

	steps := 0
	for len(w.resolveNotify) > 0 {
		steps++
		if steps > w.opts.MaxResolutionSteps {
			w.phase = PhaseDead
			return w.convergenceError(ErrWaveStepLimitHit,
				"resolution exceeded %d steps without draining", w.opts.MaxResolutionSteps)
		}

		p := w.resolveNotify[0]
		w.resolveNotify = w.resolveNotify[1:]
		if err := p.notifyDeps(w); err != nil {
			return err
		}
	}

	if w.resolvedCount != w.engagedCount {
		w.phase = PhaseDead
		return w.convergenceError(ErrWaveDidNotConverge,
			"engaged %d participants but only %d resolved", w.engagedCount, w.resolvedCount)
	}

	w.phase = PhaseCleanup
	return nil
}

func (w *Wave) runCleanup() {
	for _, p := range w.resolved {
		p.cleanup()
	}
	w.phase = PhaseDead
}

func (w *Wave) convergenceError(code ErrorCode, format string, args ...any) *Error {
	err := newFatal(code, format, args...)
	return err.withDiagnostics(w.renderStuck())
}

var defaultLogger = slog.New(slog.NewTextHandler(discardWriter{}, nil))

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// activeLogger is what Logger returns; Group reports wave lifecycle events
// to it. The package default discards everything; embedding applications
// opt in by calling SetLogger with a real handler.
var activeLogger = defaultLogger

func SetLogger(l *slog.Logger) {
	if l == nil {
		activeLogger = defaultLogger
		return
	}
	activeLogger = l
}

func Logger() *slog.Logger { return activeLogger }
