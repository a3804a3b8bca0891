// Package remote streams the output of a command running on a remote
// host into the console over SSH.  The stream surfaces as an ordinary
// pipe file descriptor, so the session controller watches it exactly
// like stdin.
package remote

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	ncerr "vtcon/internal/errors"
	"vtcon/internal/retry"
	"vtcon/util"
)

// Config holds everything needed to dial the remote host and run the
// streaming command.
type Config struct {
	User          string
	Host          string
	Port          int
	Command       string // command whose stdout feeds the console
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration
	AutoReconnect bool
}

// Source is a remote input stream.  Open dials the host, starts the
// command, and returns the read end of a pipe carrying its stdout.
// When the stream ends (and reconnection is off or exhausted) the pipe
// is closed, which the session observes as a normal EOF.
type Source struct {
	cfg *Config
	log *util.Logger

	mu     sync.Mutex
	client *ssh.Client

	pr     *os.File
	pw     *os.File
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSource creates a source that is ready to Open.
func NewSource(cfg *Config, logger *util.Logger) *Source {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = util.NewLogger(0)
	}
	return &Source{cfg: cfg, log: logger}
}

// Open dials the host, starts the remote command, and returns the read
// end of the stream.  The caller owns nothing: Close releases both the
// connection and the pipe.
func (s *Source) Open(ctx context.Context) (*os.File, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		client.Close()
		return nil, ncerr.WrapSetup("remote", err)
	}

	pumpCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.client = client
	s.pr, s.pw = pr, pw
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.pump(pumpCtx)
	return pr, nil
}

// Close tears down the connection and the pipe.  Safe to call when
// never opened.
func (s *Source) Close() error {
	s.mu.Lock()
	cancel := s.cancel
	client := s.client
	done := s.done
	pr := s.pr
	s.cancel = nil
	s.client = nil
	s.pr = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if client != nil {
		// Closing the client aborts the running session and
		// unblocks the pump.
		client.Close()
	}
	if done != nil {
		<-done
	}
	if pr != nil {
		pr.Close()
	}
	return nil
}

// ── connection ───────────────────────────────────────────────────────

// connect dials the SSH host and completes the handshake.
func (s *Source) connect(ctx context.Context) (*ssh.Client, error) {
	authMethods, err := BuildAuthMethods(s.cfg)
	if err != nil {
		return nil, ncerr.WrapSSH("auth", s.cfg.Host, s.cfg.Port, err)
	}

	hkCallback, err := hostKeyCallback(s.cfg)
	if err != nil {
		return nil, ncerr.WrapSSH("hostkey", s.cfg.Host, s.cfg.Port, err)
	}

	sshCfg := &ssh.ClientConfig{
		User:            s.cfg.User,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         s.cfg.ConnTimeout,
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.log.Debug("remote: dialing %s as %s", addr, s.cfg.User)

	// Use a context-aware TCP dial so callers can cancel.
	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, ncerr.WrapSSH("dial", s.cfg.Host, s.cfg.Port, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, sshCfg)
	if err != nil {
		tcpConn.Close()
		return nil, ncerr.WrapSSH("handshake", s.cfg.Host, s.cfg.Port, err)
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// reconnect replaces the dead client with a fresh connection.
func (s *Source) reconnect(ctx context.Context) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	old := s.client
	s.client = client
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// ── streaming ────────────────────────────────────────────────────────

// pump runs the remote command and copies its stdout into the pipe,
// reconnecting if configured.  The pipe write end closes when the pump
// gives up, which delivers EOF to the session.
func (s *Source) pump(ctx context.Context) {
	defer close(s.done)
	defer s.pw.Close()

	backoff := retry.DefaultBackoff()
	breaker := retry.NewBreaker(&retry.BreakerConfig{
		OnStateChange: func(from, to retry.State) {
			s.log.Info("remote link breaker: %v -> %v", from, to)
		},
	})

	for {
		err := s.stream()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.log.Info("remote stream ended: %v", err)
		} else {
			s.log.Info("remote stream ended")
		}

		if !s.cfg.AutoReconnect {
			return
		}

		err = backoff.Do(ctx, func(attempt int) error {
			s.log.Info("reconnecting to %s (attempt %d)", s.cfg.Host, attempt)
			return breaker.Execute(func() error { return s.reconnect(ctx) })
		})
		if err != nil {
			s.log.Warn("remote reconnect gave up: %v", err)
			return
		}
	}
}

// stream runs one remote command session to completion.
func (s *Source) stream() error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return ncerr.New("not connected")
	}

	sess, err := client.NewSession()
	if err != nil {
		return ncerr.WrapSSH("session", s.cfg.Host, s.cfg.Port, err)
	}
	defer sess.Close()

	sess.Stdout = s.pw
	return sess.Run(s.cfg.Command)
}
