// Package errors provides domain-specific error types for vtcon.
//
// These types carry structured context (setup stage, exit code,
// SSH host) that lets the caller map failures to log severity and to
// the final process exit status.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrAlreadyScheduled is returned when an idle task is added to
	// the event loop while it is still pending.  Callers treat it as
	// success.
	ErrAlreadyScheduled = errors.New("idle task already scheduled")

	// ErrClosed reports use of an event loop or device after Close.
	ErrClosed = errors.New("resource is closed")

	// ErrAsleep reports a draw attempt while the video device sleeps.
	ErrAsleep = errors.New("video device is asleep")

	// ErrNoAuthMethod means no usable SSH authentication method could
	// be assembled for the remote input source.
	ErrNoAuthMethod = errors.New("no SSH authentication methods available")
)

// ── Structured error types ───────────────────────────────────────────

// SetupError represents a failure while acquiring one of the session's
// resources during startup.  Stage names the resource ("eloop",
// "signal", "input", "video", "vt", "console", "idle").
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// SSHError represents an SSH-specific failure with host context.
type SSHError struct {
	Op   string // "dial", "handshake", "auth", "session"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ── Exit codes ───────────────────────────────────────────────────────

// codedError attaches a process exit code to an error.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// WithCode wraps err so that ExitCode reports |code| for it.
// A nil err returns nil.
func WithCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

// ExitCode maps an error to the process exit status: 0 for nil, the
// absolute value of an attached code, or 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *codedError
	if errors.As(err, &ce) {
		if ce.code < 0 {
			return -ce.code
		}
		if ce.code > 0 {
			return ce.code
		}
	}
	return 1
}

// ── Constructors ─────────────────────────────────────────────────────

// WrapSetup creates a SetupError for the named startup stage.
func WrapSetup(stage string, err error) *SetupError {
	return &SetupError{Stage: stage, Err: err}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use vtcon/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
