// Package vt abstracts the virtual-terminal subsystem: the mechanism
// that moves a console session between foreground and background.
//
// Two backends are provided.  The fake backend listens for SIGUSR1
// (leave) and SIGUSR2 (enter) through the event loop, which is enough
// to exercise the full switch path without VT privileges.  The static
// backend reports a single Enter and never switches again — the right
// choice for pipes and headless runs.
package vt

import "vtcon/eloop"

// Action is a VT switch direction.
type Action int

const (
	// Enter means this session is becoming the foreground console.
	Enter Action = iota
	// Leave means this session is moving to the background.
	Leave
)

func (a Action) String() string {
	if a == Enter {
		return "enter"
	}
	return "leave"
}

// SwitchFunc is called on the dispatch goroutine for every switch
// notification.  Returning true permits the switch to proceed; the
// session controller always permits it.
type SwitchFunc func(a Action) bool

// VT is an open virtual-terminal handle.
type VT interface {
	// Open attaches the backend to the event loop and registers the
	// switch callback.  Notifications only arrive while the loop is
	// dispatching.
	Open(loop *eloop.Loop, cb SwitchFunc) error
	// Close detaches the backend.  Safe to call when never opened.
	Close() error
}
