// Package term implements the video device on a live terminal using
// tcell.  The terminal is one display whose mode follows the window
// size; waking the device takes over the terminal and sleeping hands
// it back.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"vtcon/console"
	ncerr "vtcon/internal/errors"
	"vtcon/video"
)

// Device drives a single tcell screen.  It starts asleep: New takes
// the terminal over just long enough to initialise it, then suspends
// until the first Wake.
type Device struct {
	mu      sync.Mutex
	scr     tcell.Screen
	display *display
	awake   bool
	closed  bool
	done    chan struct{}
}

var _ video.Device = (*Device)(nil)

// New initialises the terminal and immediately suspends it.
func New() (*Device, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, ncerr.WrapSetup("terminal", err)
	}
	if err := scr.Init(); err != nil {
		return nil, ncerr.WrapSetup("terminal", err)
	}
	if err := scr.Suspend(); err != nil {
		scr.Fini()
		return nil, ncerr.WrapSetup("terminal", err)
	}

	d := &Device{
		scr:  scr,
		done: make(chan struct{}),
	}
	d.display = &display{dev: d}
	go d.drainEvents()
	return d, nil
}

// drainEvents consumes the tcell event queue so resizes are tracked
// and the queue never fills.  PollEvent returns nil after Fini, which
// ends the goroutine.
func (d *Device) drainEvents() {
	defer close(d.done)
	for {
		ev := d.scr.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			d.mu.Lock()
			if d.display.state == video.StateActive {
				d.display.mode = d.currentMode()
			}
			d.mu.Unlock()
		}
	}
}

// currentMode derives the display mode from the live terminal size.
// Callers hold d.mu.
func (d *Device) currentMode() video.Mode {
	cols, rows := d.scr.Size()
	return video.Mode{
		Width:  cols * console.CellWidth,
		Height: rows * console.CellHeight,
	}
}

// Displays returns the single terminal display.
func (d *Device) Displays() []video.Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	return []video.Display{d.display}
}

// NewScreen binds the terminal for one draw pass.
func (d *Device) NewScreen(disp video.Display) (video.Screen, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ncerr.ErrClosed
	}
	if !d.awake {
		return nil, ncerr.ErrAsleep
	}
	if disp != video.Display(d.display) {
		return nil, ncerr.New("display does not belong to this device")
	}
	return &screen{scr: d.scr}, nil
}

// Wake resumes the terminal.
func (d *Device) Wake() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ncerr.ErrClosed
	}
	if d.awake {
		return nil
	}
	if err := d.scr.Resume(); err != nil {
		return err
	}
	d.awake = true
	return nil
}

// Sleep suspends the terminal, giving it back to the shell.
func (d *Device) Sleep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || !d.awake {
		return
	}
	_ = d.scr.Suspend()
	d.awake = false
}

// IsAwake reports whether the terminal is currently taken over.
func (d *Device) IsAwake() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.awake
}

// Close finalises the terminal and waits for the event drain to stop.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.awake = false
	d.mu.Unlock()

	d.scr.Fini()
	<-d.done
	return nil
}

// ── display ──────────────────────────────────────────────────────────

type display struct {
	dev   *Device
	state video.State
	mode  video.Mode
}

var _ video.Display = (*display)(nil)

func (p *display) Name() string { return "term0" }

func (p *display) State() video.State {
	p.dev.mu.Lock()
	defer p.dev.mu.Unlock()
	return p.state
}

func (p *display) Mode() video.Mode {
	p.dev.mu.Lock()
	defer p.dev.mu.Unlock()
	return p.mode
}

// Activate reads the live terminal size; the preferred mode is ignored
// because a terminal window cannot be resized from here.
func (p *display) Activate(_ *video.Mode) error {
	p.dev.mu.Lock()
	defer p.dev.mu.Unlock()
	if p.dev.closed {
		return ncerr.ErrClosed
	}
	p.mode = p.dev.currentMode()
	p.state = video.StateActive
	return nil
}

// ── screen ───────────────────────────────────────────────────────────

type screen struct {
	scr    tcell.Screen
	used   bool
	closed bool
}

var _ video.Screen = (*screen)(nil)

func (s *screen) Size() (cols, rows int) {
	return s.scr.Size()
}

func (s *screen) SetCell(col, row int, sym rune) {
	s.scr.SetContent(col, row, sym, nil, tcell.StyleDefault)
}

// Use clears the backing cell buffer for a fresh frame.
func (s *screen) Use() error {
	if s.closed {
		return ncerr.ErrClosed
	}
	s.scr.Clear()
	s.used = true
	return nil
}

// Viewport is a no-op: tcell always draws within the window bounds.
func (s *screen) Viewport() {}

// Swap flushes the cell buffer to the terminal.
func (s *screen) Swap() error {
	if !s.used {
		return ncerr.New("screen swapped without use")
	}
	s.scr.Show()
	return nil
}

func (s *screen) Close() {
	s.closed = true
}
