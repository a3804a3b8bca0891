// Package metrics provides lightweight, lock-free counters for
// tracking runtime statistics of a vtcon session.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a console session.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	bytesIngested   atomic.Int64
	symbols         atomic.Int64
	newlines        atomic.Int64
	drawsRequested  atomic.Int64
	drawsPerformed  atomic.Int64
	framesSwapped   atomic.Int64
	displaysSkipped atomic.Int64
	vtEnters        atomic.Int64
	vtLeaves        atomic.Int64
	errorsTotal     atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Ingestion metrics ────────────────────────────────────────────────

// BytesIngested records n bytes read from the input stream.
func (c *Collector) BytesIngested(n int64) {
	if c == nil {
		return
	}
	c.bytesIngested.Add(n)
}

// Symbol records one character written to the text sink.
func (c *Collector) Symbol() {
	if c == nil {
		return
	}
	c.symbols.Add(1)
}

// Newline records one newline fed to the text sink.
func (c *Collector) Newline() {
	if c == nil {
		return
	}
	c.newlines.Add(1)
}

// TotalBytesIngested returns the lifetime input byte count.
func (c *Collector) TotalBytesIngested() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIngested.Load()
}

// ── Draw metrics ─────────────────────────────────────────────────────

// DrawRequested records one redraw request (before coalescing).
func (c *Collector) DrawRequested() {
	if c == nil {
		return
	}
	c.drawsRequested.Add(1)
}

// DrawPerformed records one idle-task draw actually running.
func (c *Collector) DrawPerformed() {
	if c == nil {
		return
	}
	c.drawsPerformed.Add(1)
}

// FrameSwapped records one completed map+swap cycle on a display.
func (c *Collector) FrameSwapped() {
	if c == nil {
		return
	}
	c.framesSwapped.Add(1)
}

// DisplaySkipped records a display dropped from one pass because of a
// per-display failure.
func (c *Collector) DisplaySkipped() {
	if c == nil {
		return
	}
	c.displaysSkipped.Add(1)
}

// DrawsPerformed returns how many draws actually ran.
func (c *Collector) DrawsPerformed() int64 {
	if c == nil {
		return 0
	}
	return c.drawsPerformed.Load()
}

// FramesSwapped returns the lifetime frame count.
func (c *Collector) FramesSwapped() int64 {
	if c == nil {
		return 0
	}
	return c.framesSwapped.Load()
}

// ── VT metrics ───────────────────────────────────────────────────────

// VTEnter records a completed foreground switch.
func (c *Collector) VTEnter() {
	if c == nil {
		return
	}
	c.vtEnters.Add(1)
}

// VTLeave records a background switch.
func (c *Collector) VTLeave() {
	if c == nil {
		return
	}
	c.vtLeaves.Add(1)
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	BytesIngested    int64  `json:"bytes_ingested"`
	Symbols          int64  `json:"symbols"`
	Newlines         int64  `json:"newlines"`
	DrawsRequested   int64  `json:"draws_requested"`
	DrawsPerformed   int64  `json:"draws_performed"`
	FramesSwapped    int64  `json:"frames_swapped"`
	DisplaysSkipped  int64  `json:"displays_skipped"`
	VTEnters         int64  `json:"vt_enters"`
	VTLeaves         int64  `json:"vt_leaves"`
	ErrorsTotal      int64  `json:"errors_total"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:          time.Since(c.startTime).Truncate(time.Second).String(),
		BytesIngested:   c.bytesIngested.Load(),
		Symbols:         c.symbols.Load(),
		Newlines:        c.newlines.Load(),
		DrawsRequested:  c.drawsRequested.Load(),
		DrawsPerformed:  c.drawsPerformed.Load(),
		FramesSwapped:   c.framesSwapped.Load(),
		DisplaysSkipped: c.displaysSkipped.Load(),
		VTEnters:        c.vtEnters.Load(),
		VTLeaves:        c.vtLeaves.Load(),
		ErrorsTotal:     c.errorsTotal.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
