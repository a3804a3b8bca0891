// Package session implements the console session controller: it owns
// the event loop, feeds ingested text into the console sink, follows
// VT foreground/background switches, and draws the sink onto every
// active display.
//
// Everything happens on the goroutine that calls Run.  Callbacks never
// overlap, so the session needs no locking beyond the termination
// flag, which signal handlers set and the run loop polls.
package session

import (
	"os"
	"sync/atomic"
	"syscall"

	"vtcon/console"
	"vtcon/eloop"
	ncerr "vtcon/internal/errors"
	"vtcon/internal/metrics"
	"vtcon/util"
	"vtcon/video"
	"vtcon/vt"
)

// Options configures a session.  Device and VT are required; the rest
// default to stdin, a fresh buffer, and a quiet logger.
type Options struct {
	Logger  *util.Logger
	Metrics *metrics.Collector
	Device  video.Device
	VT      vt.VT

	// Input is the stream fed into the console.  Defaults to stdin.
	Input *os.File
	// OwnInput makes Close close Input.  Leave false for stdin.
	OwnInput bool

	// Sink receives the ingested text.  Defaults to a console.Buffer.
	Sink console.Sink
}

// Session is one running console.
type Session struct {
	log *util.Logger
	met *metrics.Collector

	loop    *eloop.Loop
	sigTerm *eloop.Signal
	sigInt  *eloop.Signal
	input   *eloop.Fd
	dev     video.Device
	vterm   vt.VT
	sink    console.Sink
	idle    *eloop.Idle

	inputFile *os.File
	ownInput  bool

	foreground bool
	maxHeight  uint
	terminate  atomic.Bool
}

// New acquires every resource the session needs, in a fixed order.  On
// any failure the resources acquired so far are released and a
// SetupError naming the failed stage is returned.
func New(opts Options) (*Session, error) {
	if opts.Device == nil {
		return nil, ncerr.WrapSetup("video", ncerr.New("no video device"))
	}
	if opts.VT == nil {
		return nil, ncerr.WrapSetup("vt", ncerr.New("no vt backend"))
	}
	logger := opts.Logger
	if logger == nil {
		logger = util.NewLogger(0)
	}
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}

	s := &Session{
		log:       logger.Sub("session"),
		met:       opts.Metrics,
		inputFile: in,
		ownInput:  opts.OwnInput,
	}

	s.loop = eloop.New()

	var err error
	s.sigTerm, err = s.loop.AddSignal(syscall.SIGTERM, s.onTerminate)
	if err != nil {
		s.Close()
		return nil, ncerr.WrapSetup("signal", err)
	}
	s.sigInt, err = s.loop.AddSignal(syscall.SIGINT, s.onTerminate)
	if err != nil {
		s.Close()
		return nil, ncerr.WrapSetup("signal", err)
	}

	s.input, err = s.loop.AddFd(int(in.Fd()), s.onInput)
	if err != nil {
		s.Close()
		return nil, ncerr.WrapSetup("input", err)
	}

	s.dev = opts.Device

	if err = opts.VT.Open(s.loop, s.onSwitch); err != nil {
		s.Close()
		return nil, ncerr.WrapSetup("vt", err)
	}
	s.vterm = opts.VT

	s.sink = opts.Sink
	if s.sink == nil {
		s.sink = console.NewBuffer()
	}
	s.idle = eloop.NewIdle(s.draw)

	s.printHelp()
	return s, nil
}

// Close releases the session's resources in reverse acquisition
// order.  Resources that were never acquired are skipped, so Close is
// safe after a partial New and safe to call twice.
func (s *Session) Close() {
	if s.loop != nil && s.idle != nil {
		s.loop.RemoveIdle(s.idle)
	}
	s.idle = nil
	s.sink = nil

	if s.vterm != nil {
		if err := s.vterm.Close(); err != nil {
			s.log.Warn("cannot close vt: %v", err)
		}
		s.vterm = nil
	}
	if s.dev != nil {
		if err := s.dev.Close(); err != nil && !ncerr.Is(err, ncerr.ErrClosed) {
			s.log.Warn("cannot close video device: %v", err)
		}
		s.dev = nil
	}
	if s.loop != nil {
		s.loop.RemoveFd(s.input)
		s.input = nil
		s.loop.RemoveSignal(s.sigInt)
		s.sigInt = nil
		s.loop.RemoveSignal(s.sigTerm)
		s.sigTerm = nil
		if err := s.loop.Close(); err != nil && !ncerr.Is(err, ncerr.ErrClosed) {
			s.log.Warn("cannot close loop: %v", err)
		}
		s.loop = nil
	}
	if s.ownInput && s.inputFile != nil {
		s.inputFile.Close()
		s.inputFile = nil
	}
}

// Run dispatches events until termination is requested.  It returns
// the first dispatch error, or nil on a clean shutdown.
func (s *Session) Run() error {
	s.log.Info("starting console")
	s.scheduleDraw()

	var err error
	for !s.terminate.Load() {
		if err = s.loop.Dispatch(-1); err != nil {
			break
		}
	}

	s.log.Info("stopping console")
	return err
}

// Stop requests termination.  The run loop exits after the current
// dispatch cycle.  Safe to call from any goroutine or callback.
func (s *Session) Stop() {
	s.terminate.Store(true)
}

func (s *Session) onTerminate(_ *eloop.Signal, sig os.Signal) {
	s.log.Info("received %v, terminating", sig)
	s.terminate.Store(true)
}
