// Package sim provides an in-memory video device.  It backs headless
// runs and is the primary test double for the session controller:
// displays can be hot-plugged at runtime and individual operations can
// be made to fail.
package sim

import (
	"fmt"
	"sync"

	"vtcon/console"
	ncerr "vtcon/internal/errors"
	"vtcon/video"
)

// DefaultMode is used when a display is activated without an explicit
// mode preference.
var DefaultMode = video.Mode{Width: 1024, Height: 768}

// Device is a simulated display subsystem.
type Device struct {
	mu       sync.Mutex
	awake    bool
	closed   bool
	displays []*Display
	nextID   int
	created  []*Screen

	// FailWake makes the next Wake call fail (single-shot).
	FailWake bool
}

var _ video.Device = (*Device)(nil)

// New creates a sleeping device with one display per given mode.
func New(modes ...video.Mode) *Device {
	d := &Device{}
	for _, m := range modes {
		d.AddDisplay(m)
	}
	return d
}

// AddDisplay hot-plugs a new inactive display whose default mode is m.
func (d *Device) AddDisplay(m video.Mode) *Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	disp := &Display{
		dev:         d,
		name:        fmt.Sprintf("sim-%d", d.nextID),
		defaultMode: m,
	}
	d.nextID++
	d.displays = append(d.displays, disp)
	return disp
}

// RemoveDisplay hot-unplugs a display.  Unknown displays are ignored.
func (d *Device) RemoveDisplay(disp *Display) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, cur := range d.displays {
		if cur == disp {
			d.displays = append(d.displays[:i], d.displays[i+1:]...)
			return
		}
	}
}

// Displays returns a snapshot of the current display set.
func (d *Device) Displays() []video.Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]video.Display, len(d.displays))
	for i, disp := range d.displays {
		out[i] = disp
	}
	return out
}

// NewScreen binds a fresh screen to disp.
func (d *Device) NewScreen(disp video.Display) (video.Screen, error) {
	sd, ok := disp.(*Display)
	if !ok {
		return nil, ncerr.New("display does not belong to this device")
	}
	if sd.FailBind {
		return nil, ncerr.New("simulated bind failure")
	}
	mode := sd.Mode()
	scr := &Screen{
		display: sd,
		cols:    mode.Width / console.CellWidth,
		rows:    mode.Height / console.CellHeight,
		cells:   make(map[[2]int]rune),
		FailUse: sd.FailUse,
	}
	sd.mu.Lock()
	sd.screens++
	sd.mu.Unlock()
	d.mu.Lock()
	d.created = append(d.created, scr)
	d.mu.Unlock()
	return scr, nil
}

// CreatedScreens returns every screen the device ever handed out, in
// creation order.  Intended for tests.
func (d *Device) CreatedScreens() []*Screen {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Screen, len(d.created))
	copy(out, d.created)
	return out
}

// Wake powers the device up.
func (d *Device) Wake() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ncerr.ErrClosed
	}
	if d.FailWake {
		d.FailWake = false
		return ncerr.New("simulated wake failure")
	}
	d.awake = true
	return nil
}

// Sleep powers the device down.  Never fails.
func (d *Device) Sleep() {
	d.mu.Lock()
	d.awake = false
	d.mu.Unlock()
}

// IsAwake reports the power state.
func (d *Device) IsAwake() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.awake
}

// Close releases the device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ncerr.ErrClosed
	}
	d.closed = true
	d.awake = false
	return nil
}

// ── Display ──────────────────────────────────────────────────────────

// Display is one simulated output.
type Display struct {
	dev         *Device
	name        string
	defaultMode video.Mode

	mu      sync.Mutex
	state   video.State
	mode    video.Mode
	screens int // screens handed out (lifetime)

	// FailActivate makes Activate fail and leaves the display failed.
	FailActivate bool
	// FailBind makes NewScreen fail for this display.
	FailBind bool
	// FailUse makes screens bound to this display fail Use.
	FailUse bool
}

var _ video.Display = (*Display)(nil)

func (s *Display) Name() string { return s.name }

func (s *Display) State() video.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Display) Mode() video.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Activate sets the preferred mode, the display's default, or the
// package default, in that order.
func (s *Display) Activate(preferred *video.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailActivate {
		s.state = video.StateFailed
		return ncerr.New("simulated activation failure")
	}
	switch {
	case preferred != nil:
		s.mode = *preferred
	case s.defaultMode != (video.Mode{}):
		s.mode = s.defaultMode
	default:
		s.mode = DefaultMode
	}
	s.state = video.StateActive
	return nil
}

// ScreensCreated returns how many screens were ever bound to this
// display.
func (s *Display) ScreensCreated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screens
}

// ── Screen ───────────────────────────────────────────────────────────

// Screen is an ephemeral simulated render binding.  It records drawn
// cells and counts lifecycle calls so tests can assert the exact
// acquire-use-swap-release sequence.
type Screen struct {
	display *Display
	cols    int
	rows    int
	cells   map[[2]int]rune

	used    bool
	swapped int
	closed  bool

	// FailUse makes Use fail.
	FailUse bool
}

var _ video.Screen = (*Screen)(nil)

func (s *Screen) Size() (int, int) { return s.cols, s.rows }

func (s *Screen) SetCell(col, row int, sym rune) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return
	}
	s.cells[[2]int{col, row}] = sym
}

func (s *Screen) Use() error {
	if s.FailUse {
		return ncerr.New("simulated bind failure")
	}
	s.used = true
	return nil
}

func (s *Screen) Viewport() {}

func (s *Screen) Swap() error {
	if !s.used {
		return ncerr.New("swap without use")
	}
	s.swapped++
	return nil
}

func (s *Screen) Close() { s.closed = true }

// Swapped returns how many times the screen presented a frame.
func (s *Screen) Swapped() int { return s.swapped }

// Closed reports whether the screen was released.
func (s *Screen) Closed() bool { return s.closed }

// Cell returns the drawn symbol at the position, or zero.
func (s *Screen) Cell(col, row int) rune { return s.cells[[2]int{col, row}] }
