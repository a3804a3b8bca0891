package cmd

import (
	"context"
	"testing"
)

// Tests cover the parse/validate layer only; running a session takes
// over signals and possibly the terminal.

func TestExecute_Version(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Errorf("--version: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	if err := Execute(context.Background(), []string{"-h"}); err != nil {
		t.Errorf("-h: %v", err)
	}
}

func TestExecute_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--no-such-flag"}},
		{"positional argument", []string{"leftover"}},
		{"bad display spec", []string{"-d", "wide"}},
		{"bad remote spec", []string{"-R", "host:notaport"}},
		{"unknown video backend", []string{"--video", "drm"}},
		{"unknown vt backend", []string{"--vt", "kernel"}},
		{"display with term", []string{"--video", "term", "-d", "1280x720"}},
		{"reconnect without remote", []string{"--auto-reconnect"}},
		{"input and remote", []string{"-i", "/tmp/feed", "-R", "user@host"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Execute(context.Background(), tt.args); err == nil {
				t.Errorf("Execute(%v) should fail", tt.args)
			}
		})
	}
}

func TestExecute_EnvOverlay(t *testing.T) {
	t.Setenv("VTCON_VIDEO", "bogus")

	// The env-provided backend must flow into validation.
	if err := Execute(context.Background(), nil); err == nil {
		t.Error("bogus env backend should fail validation")
	}
}
