package config

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultVideoBackend drives simulated displays; it works on any
	// machine and needs no privileges.
	DefaultVideoBackend = "sim"

	// DefaultVTBackend reacts to SIGUSR1/SIGUSR2 like the real VT
	// subsystem reacts to console switches.
	DefaultVTBackend = "fake"

	// DefaultModeWidth and DefaultModeHeight describe the simulated
	// display created when no --display flag is given.
	DefaultModeWidth  = 1024
	DefaultModeHeight = 768

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultRemoteCommand is streamed from the remote host when the
	// user gives -R without --remote-cmd; Validate still requires an
	// explicit command, this is only the flag's suggested value.
	DefaultRemoteCommand = "journalctl -f"
)

// DefaultConfig returns a Config populated with the defaults above.
func DefaultConfig() *Config {
	return &Config{
		VideoBackend: DefaultVideoBackend,
		VTBackend:    DefaultVTBackend,
	}
}
