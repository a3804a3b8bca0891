package eloop

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"

	ncerr "vtcon/internal/errors"
)

// Mask describes fd readiness conditions.
type Mask int

const (
	// Readable means a read will not block (data or EOF is pending).
	Readable Mask = 1 << iota
	// Err means the fd is in an error state.
	Err
	// Hup means the peer closed its end.
	Hup
)

// FdFunc is invoked on the dispatch goroutine when the watched fd
// becomes ready.
type FdFunc func(w *Fd, mask Mask)

// Fd watches a file descriptor for readiness.  A helper goroutine
// blocks in poll(2) on the fd plus a private wake pipe; removal writes
// to the pipe so the helper never lingers in poll.
//
// The watch is level-triggered: after the callback returns, the fd is
// polled again, so a callback that does not consume all pending data
// will simply fire again.
type Fd struct {
	loop *Loop
	fd   int
	cb   FdFunc

	wakeR, wakeW *os.File
	done         chan struct{} // closed by RemoveFd
	exited       chan struct{} // closed by the poll helper on return
	rearm        chan struct{} // signals the helper to poll again
	removeOnce   sync.Once
}

// AddFd registers a readiness watch on fd.  Only Readable is watched
// explicitly; Err and Hup are always reported when they occur.
func (l *Loop) AddFd(fd int, cb FdFunc) (*Fd, error) {
	if l.isClosed() {
		return nil, ncerr.ErrClosed
	}

	wakeR, wakeW, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	w := &Fd{
		loop:   l,
		fd:     fd,
		cb:     cb,
		wakeR:  wakeR,
		wakeW:  wakeW,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		rearm:  make(chan struct{}, 1),
	}
	go w.poll()
	return w, nil
}

// RemoveFd permanently unregisters the watch.  Safe to call from the
// watch's own callback and safe to call more than once.
func (l *Loop) RemoveFd(w *Fd) {
	if w == nil {
		return
	}
	w.removeOnce.Do(func() {
		close(w.done)
		w.wakeW.Write([]byte{0}) //nolint:errcheck

		// Close the pipe only after the helper has left poll(2).
		go func() {
			<-w.exited
			w.wakeR.Close()
			w.wakeW.Close()
		}()
	})
}

// arm lets the poll helper resume after a delivered callback.
func (w *Fd) arm() {
	select {
	case w.rearm <- struct{}{}:
	default:
	}
}

// poll is the helper goroutine: wait for readiness, hand one event to
// the dispatcher, wait for the callback to finish, repeat.
func (w *Fd) poll() {
	defer close(w.exited)

	pfds := []unix.PollFd{
		{Fd: int32(w.fd), Events: unix.POLLIN},
		{Fd: int32(w.wakeR.Fd()), Events: unix.POLLIN},
	}

	for {
		pfds[0].Revents = 0
		pfds[1].Revents = 0

		_, err := unix.Poll(pfds, -1)
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}

		select {
		case <-w.done:
			return
		default:
		}

		mask := Mask(0)
		switch {
		case err != nil:
			mask = Err
		default:
			if pfds[1].Revents != 0 {
				return // woken by RemoveFd
			}
			if pfds[0].Revents&unix.POLLIN != 0 {
				mask |= Readable
			}
			if pfds[0].Revents&unix.POLLERR != 0 {
				mask |= Err
			}
			if pfds[0].Revents&unix.POLLHUP != 0 {
				// A closed pipe still has to be drained; report it
				// as readable so the callback observes EOF.
				mask |= Readable | Hup
			}
			if mask == 0 {
				continue
			}
		}

		m := mask
		select {
		case w.loop.events <- event{run: func() { w.cb(w, m) }, src: w}:
		case <-w.done:
			return
		case <-w.loop.done:
			return
		}

		if mask&Err != 0 && err != nil {
			return // fatal poll failure was reported; stop watching
		}

		select {
		case <-w.rearm:
		case <-w.done:
			return
		case <-w.loop.done:
			return
		}
	}
}
