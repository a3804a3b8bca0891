// Package cmd wires up the CLI flags and dispatches to the session
// controller.
package cmd

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"vtcon/config"
	"vtcon/internal/metrics"
	"vtcon/remote"
	"vtcon/session"
	"vtcon/util"
	"vtcon/video"
	"vtcon/video/sim"
	"vtcon/video/term"
	"vtcon/vt"
)

// version is overridable at link time:
//
//	go build -ldflags "-X vtcon/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs a console session.
func Execute(ctx context.Context, args []string) error {
	cfg := config.DefaultConfig()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("vtcon", flag.ContinueOnError)

	// ── video ────────────────────────────────────────────────────
	fs.StringVar(&cfg.VideoBackend, "video", cfg.VideoBackend,
		"Video backend: sim or term")
	var displaySpecs []string
	fs.StringArrayVarP(&displaySpecs, "display", "d", nil,
		"Add a simulated display, e.g. 1280x720 (repeatable)")

	// ── vt ───────────────────────────────────────────────────────
	fs.StringVar(&cfg.VTBackend, "vt", cfg.VTBackend,
		"VT backend: fake (SIGUSR1/SIGUSR2) or static")

	// ── input ────────────────────────────────────────────────────
	fs.StringVarP(&cfg.InputPath, "input", "i", cfg.InputPath,
		"Read input from this file or FIFO instead of stdin")
	fs.StringVarP(&cfg.RemoteSpec, "remote", "R", cfg.RemoteSpec,
		"Stream input from [user@]host[:port] over SSH")
	remoteCmdDefault := cfg.RemoteCommand
	if remoteCmdDefault == "" {
		remoteCmdDefault = config.DefaultRemoteCommand
	}
	fs.StringVar(&cfg.RemoteCommand, "remote-cmd", remoteCmdDefault,
		"Command to run on the remote host")

	// ── SSH ──────────────────────────────────────────────────────
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")
	fs.BoolVar(&cfg.AutoReconnect, "auto-reconnect", cfg.AutoReconnect,
		"Reconnect the remote stream after it drops")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.ShowStats, "stats", cfg.ShowStats, "Print session statistics on exit")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("vtcon %s\n", version)
		return nil
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Args()[0])
	}

	for _, spec := range displaySpecs {
		m, err := config.ParseModeSpec(spec)
		if err != nil {
			return fmt.Errorf("display: %w", err)
		}
		cfg.Displays = append(cfg.Displays, m)
	}

	if cfg.RemoteSpec != "" {
		user, host, port, err := config.ParseRemoteSpec(cfg.RemoteSpec)
		if err != nil {
			return fmt.Errorf("remote: %w", err)
		}
		cfg.RemoteEnabled = true
		cfg.RemoteUser = user
		cfg.RemoteHost = host
		cfg.RemotePort = port
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	return run(ctx, cfg)
}

// run builds the configured components and drives the session.
func run(ctx context.Context, cfg *config.Config) error {
	logger := util.NewLogger(cfg.Verbose)

	var met *metrics.Collector
	if cfg.ShowStats {
		met = metrics.New()
	}

	// Video device
	var dev video.Device
	switch cfg.VideoBackend {
	case "term":
		d, err := term.New()
		if err != nil {
			return err
		}
		dev = d
	default:
		modes := make([]video.Mode, 0, len(cfg.Displays))
		for _, spec := range cfg.Displays {
			modes = append(modes, video.Mode{Width: spec.Width, Height: spec.Height})
		}
		if len(modes) == 0 {
			modes = append(modes, video.Mode{
				Width:  config.DefaultModeWidth,
				Height: config.DefaultModeHeight,
			})
		}
		dev = sim.New(modes...)
	}

	// VT backend
	var vterm vt.VT
	switch cfg.VTBackend {
	case "static":
		vterm = vt.NewStatic()
	default:
		vterm = vt.NewFake()
	}

	// Input stream
	input := os.Stdin
	ownInput := false
	var src *remote.Source
	switch {
	case cfg.RemoteEnabled:
		src = remote.NewSource(&remote.Config{
			User:          cfg.RemoteUser,
			Host:          cfg.RemoteHost,
			Port:          cfg.RemotePort,
			Command:       cfg.RemoteCommand,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			AutoReconnect: cfg.AutoReconnect,
		}, logger)
		f, err := src.Open(ctx)
		if err != nil {
			dev.Close()
			return err
		}
		defer src.Close()
		input = f
	case cfg.InputPath != "":
		f, err := os.Open(cfg.InputPath)
		if err != nil {
			dev.Close()
			return fmt.Errorf("input: %w", err)
		}
		input = f
		ownInput = true
	}

	s, err := session.New(session.Options{
		Logger:   logger,
		Metrics:  met,
		Device:   dev,
		VT:       vterm,
		Input:    input,
		OwnInput: ownInput,
	})
	if err != nil {
		dev.Close() //nolint:errcheck // may already be closed by partial teardown
		if ownInput {
			input.Close()
		}
		return err
	}
	defer s.Close()

	runErr := s.Run()

	if cfg.ShowStats {
		fmt.Fprintln(os.Stderr, met.JSON())
	}
	return runErr
}

// ── helpers ──────────────────────────────────────────────────────────

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `vtcon – virtual terminal console v%s

Echoes an input stream onto a set of displays and follows VT
foreground/background switches.

Usage:
  vtcon [options]                             Read stdin
  vtcon -i <path> [options]                   Read a file or FIFO
  vtcon -R user@host --remote-cmd CMD         Stream a remote command

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  dmesg -w | vtcon -v                         Follow kernel messages
  vtcon -d 1280x720 -d 1920x1080              Two simulated displays
  vtcon --video term --vt static              Draw on this terminal
  vtcon -R admin@loghost --auto-reconnect     Remote journal stream
  kill -USR2 $(pidof vtcon)                   Bring to foreground
`)
}
