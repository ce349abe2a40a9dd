// Package remote exposes a read-only mirror of the live machine over SSH,
// for an operator watching the cabinet from another room. It is modeled on
// the teacher's wish/bubbletea SSH server: one PTY session per connection,
// each running its own Bubble Tea program against a shared Dashboard.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	console "github.com/vovakirdan/pinhall/internal/platform/sim/console"
)

// ServerConfig configures the remote operator console.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g. ":2322").
	Address string
	// HostKeyPath is where the server's host key lives. Auto-generated at
	// ~/.pinhall/host_key if empty.
	HostKeyPath string
	IdleTimeout time.Duration
}

// DefaultServerConfig returns sane defaults for a home cabinet.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{Address: ":2322", IdleTimeout: 30 * time.Minute}
}

// Server wraps a Wish SSH server mirroring a console.Dashboard to every
// connecting session. It never drives the simulator — remote viewers watch,
// they don't operate (spec §9: the media seam is outbound-only).
type Server struct {
	config    ServerConfig
	server    *ssh.Server
	dashboard *console.Dashboard
	logger    *log.Logger
}

// NewServer creates a Server that mirrors dashboard to every SSH session.
func NewServer(cfg ServerConfig, dashboard *console.Dashboard) (*Server, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "pinhall-ssh"})

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("remote: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".pinhall", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("remote: cannot create host key directory: %w", err)
	}

	srv := &Server{config: cfg, dashboard: dashboard, logger: logger}

	wishServer, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("remote: cannot create ssh server: %w", err)
	}
	srv.server = wishServer
	return srv, nil
}

// teaHandler hands every PTY session the same shared dashboard; bubbletea
// multiplexes it into one Program per session, each rendering independently.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sess.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}
	return console.NewMirror(s.dashboard), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *Server) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())
		next(sess)
		s.logger.Info("session ended", "user", sess.User(), "remote", sess.RemoteAddr().String())
	}
}

// ListenAndServe starts the server and blocks until interrupted.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting remote console", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
