package session

import (
	"strings"
	"testing"
	"time"

	"vtcon/internal/metrics"
)

func TestIngest_PreservesOrder(t *testing.T) {
	rec := &recordingSink{}
	s, w := newTestSession(t, Options{Sink: rec, Metrics: metrics.New()})
	rec.reset()

	w.write(t, "ab\ncd")
	dispatchUntil(t, s, time.Second, func() bool { return len(rec.ops) >= 5 })

	want := []string{"write:a", "write:b", "newline", "write:c", "write:d"}
	if len(rec.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", rec.ops, want)
	}
	for i := range want {
		if rec.ops[i] != want[i] {
			t.Errorf("op[%d] = %q, want %q", i, rec.ops[i], want[i])
		}
	}

	if got := s.met.TotalBytesIngested(); got != 5 {
		t.Errorf("bytes ingested = %d, want 5", got)
	}
}

func TestIngest_LargeWriteSplitsAcrossChunks(t *testing.T) {
	rec := &recordingSink{}
	s, w := newTestSession(t, Options{Sink: rec})
	rec.reset()

	// More than one 512-byte chunk in a single pipe write.
	payload := strings.Repeat("x", 700)
	w.write(t, payload)

	dispatchUntil(t, s, time.Second, func() bool { return len(rec.ops) >= 700 })
	if len(rec.ops) != 700 {
		t.Fatalf("ops = %d, want 700", len(rec.ops))
	}
}

func TestIngest_EOFRemovesWatchOnce(t *testing.T) {
	rec := &recordingSink{}
	s, w := newTestSession(t, Options{Sink: rec})
	rec.reset()

	w.write(t, "z")
	w.close()

	// The watch reports the data and then the EOF; both may arrive in
	// one readiness callback or two.
	dispatchUntil(t, s, time.Second, func() bool { return s.input == nil })

	got := len(rec.ops)
	if got < 1 || rec.ops[0] != "write:z" {
		t.Fatalf("ops before EOF = %v, want leading write:z", rec.ops)
	}

	// Nothing further may arrive after deregistration.
	for i := 0; i < 3; i++ {
		_ = s.loop.Dispatch(10 * time.Millisecond)
	}
	if len(rec.ops) != got {
		t.Errorf("sink received %d ops after EOF, want none", len(rec.ops)-got)
	}
}

func TestIngest_SessionSurvivesEOF(t *testing.T) {
	s, w := newTestSession(t, Options{})
	w.close()

	dispatchUntil(t, s, time.Second, func() bool { return s.input == nil })

	// The loop still dispatches and the session still terminates
	// cleanly through its other sources.
	s.Stop()
	if err := s.Run(); err != nil {
		t.Errorf("Run after EOF = %v, want nil", err)
	}
}
