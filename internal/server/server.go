// Package server serves games over SSH. Every SSH session gets its own
// game driven by the line protocol; saved games and statistics are
// shared through one storage.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/gliderlabs/ssh"
	"go.uber.org/zap"

	"github.com/hailam/chessview/internal/protocol"
)

const (
	DefaultAddr        = ":2222"
	DefaultIdleTimeout = 5 * time.Minute
)

// Config configures a Server.
type Config struct {
	Addr        string
	HostKeyFile string // generated per start when empty
	IdleTimeout time.Duration
}

// Server accepts SSH sessions and runs one protocol session on each.
type Server struct {
	ssh      *ssh.Server
	logger   *zap.Logger
	opts     []protocol.Option
	sessions atomic.Int64
}

// New creates a server. opts are applied to every protocol session;
// color is turned on for sessions that request a terminal.
func New(cfg Config, logger *zap.Logger, opts ...protocol.Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}

	s := &Server{
		logger: logger,
		opts:   opts,
	}
	s.ssh = &ssh.Server{
		Addr:        cfg.Addr,
		IdleTimeout: cfg.IdleTimeout,
		Handler:     s.handle,
	}
	if cfg.HostKeyFile != "" {
		if err := s.ssh.SetOption(ssh.HostKeyFile(cfg.HostKeyFile)); err != nil {
			return nil, fmt.Errorf("host key %s: %w", cfg.HostKeyFile, err)
		}
	}
	return s, nil
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe() error {
	s.logger.Info("ssh server listening", zap.String("addr", s.ssh.Addr))
	return s.filter(s.ssh.ListenAndServe())
}

// Serve accepts sessions on l until Shutdown or Close.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("ssh server listening", zap.Stringer("addr", l.Addr()))
	return s.filter(s.ssh.Serve(l))
}

// Shutdown stops accepting sessions and waits for open ones to end or
// ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.ssh.Shutdown(ctx)
}

// Close stops the server at once.
func (s *Server) Close() error {
	return s.ssh.Close()
}

// Sessions returns the number of sessions being served.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

func (s *Server) filter(err error) error {
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handle(sess ssh.Session) {
	n := s.sessions.Add(1)
	defer s.sessions.Add(-1)

	logger := s.logger.With(
		zap.String("user", sess.User()),
		zap.Stringer("remote", sess.RemoteAddr()))
	logger.Info("session started", zap.Int64("open_sessions", n))

	_, _, isPty := sess.Pty()
	opts := append([]protocol.Option(nil), s.opts...)
	opts = append(opts, protocol.WithLogger(logger), protocol.WithColor(isPty))

	p := protocol.New(sess, sess, opts...)
	err := p.Run(sess.Context())

	status := 0
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("session ended with error", zap.Error(err))
		status = 1
	}
	logger.Info("session ended",
		zap.Int("plies", len(p.Game().Moves())),
		zap.Bool("over", p.Game().Over()))
	sess.Exit(status)
}
