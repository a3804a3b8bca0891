// Package config defines the runtime configuration for vtcon and
// provides helpers for parsing display-mode and remote-input
// specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Config holds every tuneable for a single console session.
type Config struct {
	// ── Video ────────────────────────────────────────────────────────
	VideoBackend string     // "sim" or "term"
	Displays     []ModeSpec // simulated displays (sim backend only)

	// ── VT ───────────────────────────────────────────────────────────
	VTBackend string // "fake" (SIGUSR1/SIGUSR2) or "static"

	// ── Input ────────────────────────────────────────────────────────
	InputPath string // read from this file/FIFO instead of stdin

	// ── Remote input ─────────────────────────────────────────────────
	RemoteSpec     string // raw user@host[:port] from -R
	RemoteEnabled  bool
	RemoteUser     string
	RemoteHost     string
	RemotePort     int
	RemoteCommand  string // command whose stdout feeds the console
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string
	AutoReconnect  bool

	// ── Output ───────────────────────────────────────────────────────
	Verbose   int
	ShowStats bool
}

// ── Mode helpers ─────────────────────────────────────────────────────

// ModeSpec is a requested display resolution.
type ModeSpec struct {
	Width  int
	Height int
}

func (m ModeSpec) String() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// ParseModeSpec accepts "1280x720" style resolution strings.
func ParseModeSpec(spec string) (ModeSpec, error) {
	parts := strings.SplitN(strings.ToLower(spec), "x", 2)
	if len(parts) != 2 {
		return ModeSpec{}, fmt.Errorf("invalid mode %q – expected WIDTHxHEIGHT", spec)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return ModeSpec{}, fmt.Errorf("invalid mode width %q", parts[0])
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return ModeSpec{}, fmt.Errorf("invalid mode height %q", parts[1])
	}
	if w < 1 || h < 1 || w > 16384 || h > 16384 {
		return ModeSpec{}, fmt.Errorf("mode %dx%d out of range", w, h)
	}
	return ModeSpec{Width: w, Height: h}, nil
}

// ── Remote-spec parser ───────────────────────────────────────────────

// remoteRe matches [user@]host[:port].
var remoteRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseRemoteSpec extracts user, host, and port from a string such as
// "admin@loghost.example.com:2222".  Port defaults to 22.
func ParseRemoteSpec(spec string) (user, host string, port int, err error) {
	m := remoteRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid remote spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid remote port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("remote host is required")
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.VideoBackend {
	case "sim", "term":
	default:
		return fmt.Errorf("unknown video backend %q (want sim or term)", c.VideoBackend)
	}

	switch c.VTBackend {
	case "fake", "static":
	default:
		return fmt.Errorf("unknown vt backend %q (want fake or static)", c.VTBackend)
	}

	if c.VideoBackend == "term" && len(c.Displays) > 0 {
		return fmt.Errorf("--display is only meaningful with the sim backend")
	}

	if c.InputPath != "" && c.RemoteEnabled {
		return fmt.Errorf("--input and --remote are mutually exclusive")
	}

	if c.RemoteEnabled {
		if c.RemoteHost == "" {
			return fmt.Errorf("remote host is required")
		}
		if c.RemoteCommand == "" {
			return fmt.Errorf("remote mode requires --remote-cmd")
		}
	} else if c.AutoReconnect {
		return fmt.Errorf("--auto-reconnect requires --remote")
	}

	return nil
}
