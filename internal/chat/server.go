package chat

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/andy6609/chatrouter/internal/command"
	"github.com/andy6609/chatrouter/internal/config"
)

var (
	ErrAlreadyListening = errors.New("server is already listening")
	ErrNotListening     = errors.New("server is already stopped")
	ErrAlreadyClosed    = errors.New("server is already closed")
	ErrNotClosed        = errors.New("port can only be changed while the server is closed")
)

// Server accepts line connections and exposes the operator controls over
// listening state. A server is closed until Start, listening after Listen,
// stopped (connections kept, no new ones accepted) after StopListening and
// closed again after Close.
type Server struct {
	logger *slog.Logger
	reg    *Registry
	opts   SessionOptions

	mu       sync.Mutex
	host     string
	port     int
	listener net.Listener
	closed   bool
}

// NewServer builds a closed server from cfg. It fails when cfg.Addr is not
// a host:port pair with a numeric port.
func NewServer(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	host, portStr, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("invalid listen address %q: %w", cfg.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid listen port %q: %w", portStr, err)
	}

	return &Server{
		logger: logger.With("component", "server"),
		reg:    NewRegistry(cfg.EventBuffer, cfg.DefaultChannel, logger),
		opts: SessionOptions{
			OutboundBuffer: cfg.OutboundBuffer,
			MaxLineLength:  cfg.MaxLineLength,
			RatePerSecond:  cfg.RateLimit.PerSecond,
			RateBurst:      cfg.RateLimit.Burst,
		},
		host:   host,
		port:   port,
		closed: true,
	}, nil
}

// Start runs the registry and begins listening.
func (s *Server) Start() error {
	go s.reg.Run()
	return s.Listen()
}

// Listen starts accepting connections on the current port.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return ErrAlreadyListening
	}
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.closed = false

	go s.acceptLoop(ln)

	s.logger.Info("server listening for connections", "addr", ln.Addr().String())
	return nil
}

// StopListening stops accepting new connections and warns connected users.
func (s *Server) StopListening() error {
	s.mu.Lock()
	if s.listener == nil {
		s.mu.Unlock()
		return ErrNotListening
	}
	s.listener.Close()
	s.listener = nil
	s.mu.Unlock()

	s.logger.Info("server has stopped listening for connections")
	s.reg.Broadcast(NoticeStopped)
	return nil
}

// Close stops listening and disconnects every client.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrAlreadyClosed
	}
	if s.listener != nil {
		s.listener.Close()
		s.listener = nil
	}
	s.closed = true
	s.mu.Unlock()

	s.reg.Broadcast(NoticeShuttingDown)
	s.reg.DisconnectAll()
	s.logger.Info("server closed")
	return nil
}

// Shutdown closes the server if needed and stops the registry.
func (s *Server) Shutdown() {
	s.logger.Info("shutting down")
	if err := s.Close(); err != nil && !errors.Is(err, ErrAlreadyClosed) {
		s.logger.Error("close failed", "error", err)
	}
	s.reg.Stop()
	s.reg.Wait()
	s.logger.Info("shutdown complete")
}

func (s *Server) SetPort(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		return ErrNotClosed
	}
	s.port = port
	s.logger.Info("port changed", "port", port)
	return nil
}

// Port returns the configured port, or the bound one when it was 0.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == 0 && s.listener != nil {
		return s.listener.Addr().(*net.TCPAddr).Port
	}
	return s.port
}

// ListenAddr returns the bound address, or nil when not listening.
func (s *Server) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Accepting reports whether new connections are being accepted.
func (s *Server) Accepting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener != nil
}

// Broadcast sends operator text to every user that has not muted the server.
func (s *Server) Broadcast(text string) Delivery {
	return s.reg.Broadcast(fmt.Sprintf(msgServerMessage, text))
}

// Operator runs a moderation command: block, unblock or whoiblock.
func (s *Server) Operator(cmd command.Command) []string {
	return s.reg.Operator(cmd)
}

func (s *Server) Registry() *Registry { return s.reg }

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Error("accept failed", "error", err)
			}
			return
		}

		s.logger.Info("client connected", "addr", conn.RemoteAddr().String())
		go HandleSession(NewTCPConn(conn), s.reg, s.opts, s.logger)
	}
}

// serve runs a connection accepted by another listener, such as /ws.
func (s *Server) serve(conn LineConn) {
	s.logger.Info("client connected", "addr", conn.RemoteAddr())
	HandleSession(conn, s.reg, s.opts, s.logger)
}
