package session

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"vtcon/console"
	"vtcon/eloop"
	ncerr "vtcon/internal/errors"
	"vtcon/internal/metrics"
	"vtcon/video"
	"vtcon/video/sim"
	"vtcon/vt"
)

// ── test doubles ─────────────────────────────────────────────────────

// recordingSink logs every sink operation in order.
type recordingSink struct {
	ops    []string
	height uint
	maps   int
}

var _ console.Sink = (*recordingSink)(nil)

func (r *recordingSink) Write(sym rune) { r.ops = append(r.ops, "write:"+string(sym)) }
func (r *recordingSink) Newline()       { r.ops = append(r.ops, "newline") }
func (r *recordingSink) Resize(cols, rows, height uint) {
	r.ops = append(r.ops, fmt.Sprintf("resize:%d", height))
	r.height = height
}
func (r *recordingSink) Map(console.Target) {
	r.ops = append(r.ops, "map")
	r.maps++
}
func (r *recordingSink) Height() uint { return r.height }
func (r *recordingSink) reset()       { r.ops = nil; r.maps = 0 }

// nopVT hands the switch callback to the test instead of wiring it to
// signals, so tests trigger switches directly.
type nopVT struct {
	cb vt.SwitchFunc
}

func (v *nopVT) Open(_ *eloop.Loop, cb vt.SwitchFunc) error {
	v.cb = cb
	return nil
}
func (v *nopVT) Close() error { return nil }

// failingVT refuses to open.
type failingVT struct{}

func (failingVT) Open(*eloop.Loop, vt.SwitchFunc) error {
	return ncerr.New("no vt available")
}
func (failingVT) Close() error { return nil }

// ── helpers ──────────────────────────────────────────────────────────

type testWriter struct {
	mu sync.Mutex
	f  *os.File
}

func (w *testWriter) write(t *testing.T, data string) {
	t.Helper()
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.Write([]byte(data)); err != nil {
		t.Fatalf("pipe write: %v", err)
	}
}

func (w *testWriter) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f != nil {
		w.f.Close()
		w.f = nil
	}
}

// newTestSession builds a session around a pipe input.  Missing options
// get test defaults: a one-display sim device and a nopVT.
func newTestSession(t *testing.T, opts Options) (*Session, *testWriter) {
	t.Helper()

	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	opts.Input = pr
	opts.OwnInput = true
	if opts.Device == nil {
		opts.Device = sim.New(video.Mode{Width: 800, Height: 600})
	}
	if opts.VT == nil {
		opts.VT = &nopVT{}
	}

	s, err := New(opts)
	if err != nil {
		pr.Close()
		pw.Close()
		t.Fatalf("New: %v", err)
	}

	w := &testWriter{f: pw}
	t.Cleanup(func() {
		s.Close()
		w.close()
	})
	return s, w
}

func dispatchUntil(t *testing.T, s *Session, deadline time.Duration, cond func() bool) {
	t.Helper()
	end := time.Now().Add(deadline)
	for !cond() {
		if time.Now().After(end) {
			t.Fatal("condition not met before deadline")
		}
		if err := s.loop.Dispatch(50 * time.Millisecond); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
	}
}

// ── construction & teardown ──────────────────────────────────────────

func TestNew_RequiresDeviceAndVT(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("New without device should fail")
	}

	_, err := New(Options{Device: sim.New()})
	if err == nil {
		t.Fatal("New without vt should fail")
	}
	var se *ncerr.SetupError
	if !ncerr.As(err, &se) || se.Stage != "vt" {
		t.Errorf("error = %v, want SetupError stage vt", err)
	}
}

func TestNew_VTOpenFailureIsSetupError(t *testing.T) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer pw.Close()

	_, err = New(Options{
		Device:   sim.New(),
		VT:       failingVT{},
		Input:    pr,
		OwnInput: true,
	})
	if err == nil {
		t.Fatal("expected vt open failure")
	}
	var se *ncerr.SetupError
	if !ncerr.As(err, &se) || se.Stage != "vt" {
		t.Errorf("error = %v, want SetupError stage vt", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Close()
	s.Close() // must not panic

	if s.loop != nil || s.vterm != nil || s.dev != nil {
		t.Error("Close should nil out all resources")
	}
}

func TestHelp_GoesThroughIngestion(t *testing.T) {
	rec := &recordingSink{}
	newTestSession(t, Options{Sink: rec})

	if len(rec.ops) != len(helpText) {
		t.Fatalf("help produced %d sink ops, want %d", len(rec.ops), len(helpText))
	}
	newlines := 0
	for _, op := range rec.ops {
		if op == "newline" {
			newlines++
		}
	}
	if want := strings.Count(helpText, "\n"); newlines != want {
		t.Errorf("help produced %d newlines, want %d", newlines, want)
	}
}

// ── run loop ─────────────────────────────────────────────────────────

func TestRun_TerminatesOnSIGTERM(t *testing.T) {
	s, _ := newTestSession(t, Options{Metrics: metrics.New()})

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	// Give Run a moment to enter Dispatch before signalling.
	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not terminate on SIGTERM")
	}
}

func TestRun_StopBeforeRunExitsImmediately(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Stop()

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not honor Stop")
	}
}
