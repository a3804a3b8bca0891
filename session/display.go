package session

import (
	"vtcon/eloop"
	ncerr "vtcon/internal/errors"
	"vtcon/video"
	"vtcon/vt"
)

// onSwitch follows VT notifications.  Enter wakes the device and
// activates the display set; a wake failure leaves the session in the
// background without escalating.  Leave puts the device to sleep.  The
// switch itself is always permitted.
func (s *Session) onSwitch(a vt.Action) bool {
	if a == vt.Enter {
		if err := s.dev.Wake(); err != nil {
			s.log.Warn("cannot wake video device: %v", err)
			s.met.RecordError(err.Error())
			return true
		}
		s.foreground = true
		s.met.VTEnter()
		s.log.Verbose("session entered foreground")
		s.activateOutputs()
	} else {
		s.foreground = false
		s.met.VTLeave()
		s.log.Verbose("session left foreground")
		s.dev.Sleep()
	}
	return true
}

// activateOutputs re-enumerates the display set, activates every
// inactive display, resizes the sink to the tallest mode, and requests
// a draw.  Per-display activation failures skip that display only.
func (s *Session) activateOutputs() {
	s.maxHeight = 0

	for _, d := range s.dev.Displays() {
		if d.State() == video.StateInactive {
			if err := d.Activate(nil); err != nil {
				s.log.Warn("cannot activate display %s: %v", d.Name(), err)
				s.met.DisplaySkipped()
				continue
			}
		}
		if d.State() != video.StateActive {
			continue
		}
		if h := uint(d.Mode().Height); h > s.maxHeight {
			s.maxHeight = h
		}
	}

	s.log.Debug("activated outputs (max height: %d)", s.maxHeight)
	s.sink.Resize(0, 0, s.maxHeight)
	s.scheduleDraw()
}

// mapOutputs draws the sink onto every active display through a fresh
// screen binding.  While the device sleeps this is a no-op; drawing
// resumes with the next wake.
func (s *Session) mapOutputs() {
	if !s.dev.IsAwake() {
		return
	}

	for _, d := range s.dev.Displays() {
		if d.State() != video.StateActive {
			continue
		}

		scr, err := s.dev.NewScreen(d)
		if err != nil {
			s.log.Warn("cannot bind screen for %s: %v", d.Name(), err)
			s.met.DisplaySkipped()
			continue
		}
		if err := scr.Use(); err != nil {
			s.log.Warn("cannot use screen for %s: %v", d.Name(), err)
			s.met.DisplaySkipped()
			scr.Close()
			continue
		}

		scr.Viewport()
		s.sink.Map(scr)
		if err := scr.Swap(); err != nil {
			s.log.Warn("cannot swap screen for %s: %v", d.Name(), err)
		} else {
			s.met.FrameSwapped()
		}
		scr.Close()
	}
}

// scheduleDraw requests a redraw on the next dispatch cycle.  Requests
// made while one is already pending coalesce into that single draw.
func (s *Session) scheduleDraw() {
	s.met.DrawRequested()
	err := s.loop.AddIdle(s.idle)
	if err != nil && !ncerr.Is(err, eloop.ErrAlreadyScheduled) {
		s.log.Warn("cannot schedule draw: %v", err)
		s.met.RecordError(err.Error())
	}
}

// draw is the idle callback: it has already left the queue when it
// runs, so a new draw can be scheduled from inside it.
func (s *Session) draw() {
	s.met.DrawPerformed()
	s.mapOutputs()
}
