// Package video defines the display subsystem consumed by the session
// controller: a device that owns a set of displays, can be woken and
// put to sleep, and hands out ephemeral screens for drawing.
//
// Implementations live in the sim (in-memory, hot-pluggable) and term
// (live terminal via tcell) subpackages.
package video

import "vtcon/console"

// State is the activation state of one display.
type State int

const (
	// StateInactive means the display exists but has no mode set.
	StateInactive State = iota
	// StateActive means the display is ready to be drawn on.
	StateActive
	// StateFailed means activation failed; the display is skipped
	// until the subsystem recovers it.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mode is a display resolution in pixels.
type Mode struct {
	Width  int
	Height int
}

// Display is one physical output.  Displays are owned by the Device;
// callers must re-enumerate on every use instead of caching them, since
// displays can appear and disappear between draws.
type Display interface {
	// Name identifies the display for logging.
	Name() string
	// State returns the current activation state.
	State() State
	// Mode returns the current mode; the zero Mode before activation.
	Mode() Mode
	// Activate brings the display up.  A nil preference lets the
	// device pick a default mode.
	Activate(preferred *Mode) error
}

// Screen is an ephemeral binding of one display to a render target.
// It is created for a single draw pass and must be released with Close
// before the pass moves on; screens are never cached across draws.
type Screen interface {
	console.Target

	// Use binds the screen as the current render target.
	Use() error
	// Viewport restricts drawing to the screen's bounds.
	Viewport()
	// Swap presents the drawn frame.
	Swap() error
	// Close releases the binding.  Always safe to call once.
	Close()
}

// Device is the display subsystem handle.
type Device interface {
	// Displays enumerates the current display set.  The returned
	// slice is a snapshot; do not retain the elements.
	Displays() []Display
	// NewScreen creates a fresh single-display screen binding.
	NewScreen(d Display) (Screen, error)
	// Wake powers the subsystem up.  Drawing is only allowed while
	// the device is awake.
	Wake() error
	// Sleep powers the subsystem down.  Never fails observably.
	Sleep()
	// IsAwake reports the current power state.
	IsAwake() bool
	// Close releases the device.
	Close() error
}
