package errors

import (
	stderr "errors"
	"fmt"
	"testing"
)

// ── Exit codes ───────────────────────────────────────────────────────

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", stderr.New("boom"), 1},
		{"coded positive", WithCode(stderr.New("boom"), 5), 5},
		{"coded negative", WithCode(stderr.New("boom"), -17), 17},
		{"coded zero falls back", WithCode(stderr.New("boom"), 0), 1},
		{"wrapped coded", fmt.Errorf("outer: %w", WithCode(stderr.New("boom"), 3)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWithCode_Nil(t *testing.T) {
	if WithCode(nil, 7) != nil {
		t.Error("WithCode(nil) should return nil")
	}
}

func TestWithCode_PreservesChain(t *testing.T) {
	base := stderr.New("base")
	err := WithCode(fmt.Errorf("ctx: %w", base), 2)
	if !Is(err, base) {
		t.Error("coded error should unwrap to the base error")
	}
}

// ── Structured types ─────────────────────────────────────────────────

func TestSetupError(t *testing.T) {
	base := stderr.New("permission denied")
	err := WrapSetup("vt", base)

	if got := err.Error(); got != "setup vt: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, base) {
		t.Error("SetupError should unwrap to the base error")
	}

	var se *SetupError
	if !As(fmt.Errorf("wrapped: %w", err), &se) {
		t.Fatal("As should find SetupError through wrapping")
	}
	if se.Stage != "vt" {
		t.Errorf("Stage = %q, want %q", se.Stage, "vt")
	}
}

func TestSSHError(t *testing.T) {
	base := stderr.New("connection refused")
	err := WrapSSH("dial", "gw.example.com", 22, base)

	want := "ssh dial gw.example.com:22: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, base) {
		t.Error("SSHError should unwrap to the base error")
	}
}

// ── Sentinels ────────────────────────────────────────────────────────

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrAlreadyScheduled, ErrClosed, ErrAsleep, ErrNoAuthMethod}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && Is(a, b) {
				t.Errorf("sentinel %d and %d should be distinct", i, j)
			}
		}
	}
}
