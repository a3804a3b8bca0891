package eloop

import ncerr "vtcon/internal/errors"

// IdleFunc is the callback of a one-shot idle task.
type IdleFunc func()

// Idle is a one-shot task that fires at most once per scheduling
// request, at the start of the next dispatch cycle.  It deregisters
// automatically when it fires; scheduling it again while pending
// returns ErrAlreadyScheduled.
type Idle struct {
	cb      IdleFunc
	pending bool // guarded by the owning loop's mu
}

// NewIdle creates an idle task around cb.  The task holds no loop
// reference; the same task can be scheduled on a loop repeatedly.
func NewIdle(cb IdleFunc) *Idle {
	return &Idle{cb: cb}
}

// AddIdle schedules i to run on the next dispatch cycle.  If i is
// already pending, ErrAlreadyScheduled is returned and nothing
// changes — duplicate scheduling is a no-op, not an error condition.
func (l *Loop) AddIdle(i *Idle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ncerr.ErrClosed
	}
	if i.pending {
		return ErrAlreadyScheduled
	}
	i.pending = true
	l.idles = append(l.idles, i)
	return nil
}

// RemoveIdle cancels a pending idle task.  Removing a task that is not
// pending (including from inside its own callback) is a no-op.
func (l *Loop) RemoveIdle(i *Idle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i == nil || !i.pending {
		return
	}
	for n, q := range l.idles {
		if q == i {
			l.idles = append(l.idles[:n], l.idles[n+1:]...)
			break
		}
	}
	i.pending = false
}

// Pending reports whether i is currently scheduled.
func (l *Loop) Pending(i *Idle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return i.pending
}
