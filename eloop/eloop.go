// Package eloop implements a single-threaded cooperative event loop.
//
// Sources are file-descriptor readiness watches, OS signal watches, and
// one-shot idle tasks.  All callbacks run sequentially on the goroutine
// that calls Dispatch — no two callbacks ever run concurrently, so
// state shared between callbacks needs no locking.  Callbacks may
// register and unregister sources, including themselves.
//
// Watches bridge the OS to the loop with small helper goroutines that
// block in poll(2) or on a signal channel and hand readiness to the
// dispatcher; the helpers never invoke user callbacks.
package eloop

import (
	"sync"
	"time"

	ncerr "vtcon/internal/errors"
)

// ErrAlreadyScheduled is returned by AddIdle when the idle task is
// still pending.  Callers should treat it as success.
var ErrAlreadyScheduled = ncerr.ErrAlreadyScheduled

// event is one unit of dispatchable work handed over by a watch
// goroutine.  After the callback returns, src (if any) is re-armed so
// the watch can report the next readiness.
type event struct {
	run func()
	src *Fd
}

// Loop multiplexes fd, signal, and idle sources onto one dispatcher.
type Loop struct {
	events chan event
	done   chan struct{}

	mu     sync.Mutex
	closed bool
	idles  []*Idle // pending one-shot tasks, FIFO
}

// New creates an empty event loop.
func New() *Loop {
	return &Loop{
		events: make(chan event, 16),
		done:   make(chan struct{}),
	}
}

// Close shuts the loop down.  Watches should be removed first; any
// still running will park on their done channels and exit.
// Dispatch returns ErrClosed afterwards.
func (l *Loop) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ncerr.ErrClosed
	}
	l.closed = true
	close(l.done)
	return nil
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Dispatch runs one cycle of the loop: pending idle tasks first, then
// — if none ran — it blocks until at least one event is ready or the
// timeout elapses.  A negative timeout blocks indefinitely.  Every
// event that is ready by the end of the cycle is handled before
// Dispatch returns; callbacks run to completion, one at a time.
func (l *Loop) Dispatch(timeout time.Duration) error {
	if l.isClosed() {
		return ncerr.ErrClosed
	}

	// Idle tasks scheduled before this cycle count as work: run them
	// and only drain events that are already ready.
	if l.runIdles() {
		l.drain()
		return nil
	}

	if timeout < 0 {
		select {
		case ev := <-l.events:
			l.deliver(ev)
		case <-l.done:
			return ncerr.ErrClosed
		}
	} else {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case ev := <-l.events:
			l.deliver(ev)
		case <-timer.C:
			return nil
		case <-l.done:
			return ncerr.ErrClosed
		}
	}

	l.drain()
	return nil
}

// deliver runs one event's callback, then re-arms its source watch.
func (l *Loop) deliver(ev event) {
	ev.run()
	if ev.src != nil {
		ev.src.arm()
	}
}

// drain handles every event that is ready right now without blocking.
func (l *Loop) drain() {
	for {
		select {
		case ev := <-l.events:
			l.deliver(ev)
		default:
			return
		}
	}
}

// runIdles pops and runs the whole pending idle queue.  Each task's
// pending flag is cleared before its callback runs, so a callback may
// re-schedule itself (the re-run happens on the next cycle).
func (l *Loop) runIdles() bool {
	l.mu.Lock()
	queue := l.idles
	l.idles = nil
	for _, i := range queue {
		i.pending = false
	}
	l.mu.Unlock()

	for _, i := range queue {
		i.cb()
	}
	return len(queue) > 0
}
