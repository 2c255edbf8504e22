package internal

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies a fatal engine misuse or integrity violation.
type ErrorCode string

const (
	ErrEngageAfterClose     ErrorCode = "engage_after_engagement_closed"
	ErrCrossWaveEngage      ErrorCode = "cross_wave_engage"
	ErrDeferNotEngaged      ErrorCode = "defer_from_unengaged_participant"
	ErrSessionDestroyed     ErrorCode = "session_destroyed"
	ErrWaveDidNotConverge   ErrorCode = "wave_did_not_converge"
	ErrWaveStepLimitHit     ErrorCode = "wave_step_limit_exceeded"
	ErrDisposeDuringEngage  ErrorCode = "dispose_during_own_wave"
	ErrRegisterAfterDispose ErrorCode = "register_after_dispose"
)

// Error is the single fatal error type the engine raises. It always carries
// a stable Code a caller can switch on, plus an optional Diagnostics tree
// rendered for convergence failures.
type Error struct {
	Code        ErrorCode
	Message     string
	Diagnostics string
	cause       error
}

func (e *Error) Error() string {
	if e.Diagnostics == "" {
		return fmt.Sprintf("wave: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("wave: %s: %s\n%s", e.Code, e.Message, e.Diagnostics)
}

func (e *Error) Unwrap() error { return e.cause }

func newFatal(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.WithStack(fmt.Errorf(format, args...)),
	}
}

func (e *Error) withDiagnostics(tree string) *Error {
	e.Diagnostics = tree
	return e
}
