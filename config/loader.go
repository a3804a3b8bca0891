package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the VTCON_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("VTCON_VIDEO"); v != "" {
		cfg.VideoBackend = v
	}
	if v := os.Getenv("VTCON_VT"); v != "" {
		cfg.VTBackend = v
	}
	if v := os.Getenv("VTCON_INPUT"); v != "" {
		cfg.InputPath = v
	}

	// Remote input
	if v := os.Getenv("VTCON_REMOTE"); v != "" {
		cfg.RemoteSpec = v
	}
	if v := os.Getenv("VTCON_REMOTE_CMD"); v != "" {
		cfg.RemoteCommand = v
	}
	if v := os.Getenv("VTCON_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("VTCON_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("VTCON_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("VTCON_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("VTCON_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}
	if envBool("VTCON_AUTO_RECONNECT") {
		cfg.AutoReconnect = true
	}

	// Output
	if v := envInt("VTCON_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if envBool("VTCON_STATS") {
		cfg.ShowStats = true
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
