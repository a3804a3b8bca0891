package vt

import (
	"vtcon/eloop"
	ncerr "vtcon/internal/errors"
)

// Static is a VT backend for sessions that never switch: it delivers
// one Enter notification through the loop and stays foreground
// forever.  The notification goes through an idle task so it arrives
// inside a dispatch cycle like a real switch would.
type Static struct {
	loop *eloop.Loop
	idle *eloop.Idle
}

var _ VT = (*Static)(nil)

// NewStatic returns an unopened static VT.
func NewStatic() *Static { return &Static{} }

// Open schedules the single Enter notification.
func (s *Static) Open(loop *eloop.Loop, cb SwitchFunc) error {
	if s.loop != nil {
		return ncerr.New("vt already open")
	}

	s.idle = eloop.NewIdle(func() { cb(Enter) })
	if err := loop.AddIdle(s.idle); err != nil {
		s.idle = nil
		return err
	}
	s.loop = loop
	return nil
}

// Close cancels the pending notification if it has not fired yet.
func (s *Static) Close() error {
	if s.loop == nil {
		return nil
	}
	s.loop.RemoveIdle(s.idle)
	s.loop = nil
	s.idle = nil
	return nil
}
