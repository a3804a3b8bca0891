package vt

import (
	"os"
	"syscall"

	"vtcon/eloop"
	ncerr "vtcon/internal/errors"
)

// Fake is a signal-driven VT backend: SIGUSR1 puts the session in the
// background, SIGUSR2 brings it to the foreground.  There is no kernel
// handshake, so the callback's permission result has nothing to
// acknowledge and is ignored.
type Fake struct {
	loop     *eloop.Loop
	sigEnter *eloop.Signal
	sigLeave *eloop.Signal
}

var _ VT = (*Fake)(nil)

// NewFake returns an unopened fake VT.
func NewFake() *Fake { return &Fake{} }

// Open registers the SIGUSR1/SIGUSR2 watches on the loop.
func (f *Fake) Open(loop *eloop.Loop, cb SwitchFunc) error {
	if f.loop != nil {
		return ncerr.New("vt already open")
	}

	leave, err := loop.AddSignal(syscall.SIGUSR1, func(_ *eloop.Signal, _ os.Signal) {
		cb(Leave)
	})
	if err != nil {
		return err
	}
	enter, err := loop.AddSignal(syscall.SIGUSR2, func(_ *eloop.Signal, _ os.Signal) {
		cb(Enter)
	})
	if err != nil {
		loop.RemoveSignal(leave)
		return err
	}

	f.loop = loop
	f.sigLeave = leave
	f.sigEnter = enter
	return nil
}

// Close removes the signal watches.
func (f *Fake) Close() error {
	if f.loop == nil {
		return nil
	}
	f.loop.RemoveSignal(f.sigEnter)
	f.loop.RemoveSignal(f.sigLeave)
	f.loop = nil
	f.sigEnter = nil
	f.sigLeave = nil
	return nil
}
