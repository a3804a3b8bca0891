package eloop

import (
	"os"
	"os/signal"
	"sync"

	ncerr "vtcon/internal/errors"
)

// SignalFunc is invoked on the dispatch goroutine when the watched
// signal is delivered.  No logic beyond flag-setting should normally
// live in termination handlers; heavier work belongs in other sources.
type SignalFunc func(w *Signal, sig os.Signal)

// Signal watches one OS signal.  A helper goroutine forwards
// deliveries from os/signal into the loop.
type Signal struct {
	loop *Loop
	sig  os.Signal
	cb   SignalFunc

	ch         chan os.Signal
	done       chan struct{}
	removeOnce sync.Once
}

// AddSignal registers a watch for sig.  Multiple watches for the same
// signal all fire.
func (l *Loop) AddSignal(sig os.Signal, cb SignalFunc) (*Signal, error) {
	if l.isClosed() {
		return nil, ncerr.ErrClosed
	}

	w := &Signal{
		loop: l,
		sig:  sig,
		cb:   cb,
		ch:   make(chan os.Signal, 4),
		done: make(chan struct{}),
	}
	signal.Notify(w.ch, sig)
	go w.forward()
	return w, nil
}

// RemoveSignal unregisters the watch.  Safe to call more than once and
// from any callback.
func (l *Loop) RemoveSignal(w *Signal) {
	if w == nil {
		return
	}
	w.removeOnce.Do(func() {
		signal.Stop(w.ch)
		close(w.done)
	})
}

func (w *Signal) forward() {
	for {
		select {
		case s := <-w.ch:
			select {
			case w.loop.events <- event{run: func() { w.cb(w, s) }}:
			case <-w.done:
				return
			case <-w.loop.done:
				return
			}
		case <-w.done:
			return
		case <-w.loop.done:
			return
		}
	}
}
