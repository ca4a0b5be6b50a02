package redisserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/shardkv-go/internal/core/service"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
)

// Config holds the Redis server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadTimeout bounds reading one command once its first byte arrived.
	ReadTimeout time.Duration
	// WriteTimeout bounds flushing one reply.
	WriteTimeout time.Duration
	// IdleTimeout closes connections that send nothing for this long.
	IdleTimeout time.Duration
	// MaxBulkLen caps a single argument. It should cover the value limit.
	MaxBulkLen int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		MaxBulkLen:   DefaultMaxBulkLen,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.MaxBulkLen <= 0 {
		c.MaxBulkLen = d.MaxBulkLen
	}
}

// Server accepts RESP connections and serves one goroutine per client.
type Server struct {
	cfg     Config
	handler *CommandHandler
	logger  *slog.Logger

	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// New creates a Redis protocol server backed by kv.
func New(cfg Config, kv *service.KVService, limiters *service.RateLimiterRegistry, logger *slog.Logger) *Server {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		handler: NewCommandHandler(kv, limiters, logger),
		logger:  logger,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("redis listen %s: %w", s.cfg.Addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.Addr
}

// Serve accepts connections until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.running.Store(true)
	s.logger.Info("redis server listening", "addr", s.Addr())

	for {
		c, err := s.ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		s.track(c, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(c, false)
			s.serveConn(ctx, c)
		}()
	}
}

// Shutdown stops accepting, closes open connections and waits for their
// goroutines or ctx, whichever comes first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var err error
	if s.ln != nil {
		if cerr := s.ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	}

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) track(c net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		if !s.running.Load() {
			_ = c.Close()
		}
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

func (s *Server) serveConn(ctx context.Context, c net.Conn) {
	defer c.Close()

	r := NewReader(c, s.cfg.MaxBulkLen)
	w := NewWriter(c)
	client := clientIP(c.RemoteAddr())
	ctx = logger.WithConn(ctx, c.RemoteAddr().String())

	reply := func() bool {
		if err := c.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return false
		}
		return w.Flush() == nil
	}

	for {
		// Idle connections may wait up to IdleTimeout for the next command.
		if err := c.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
			return
		}
		if err := r.Peek(); err != nil {
			s.logReadError(c, err)
			return
		}

		// Once a command starts it must arrive within ReadTimeout.
		if err := c.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return
		}

		args, err := r.ReadCommand()
		if err != nil {
			switch {
			case errors.Is(err, ErrLimitExceeded):
				s.logger.Warn("redis protocol limit exceeded", "remote", c.RemoteAddr().String(), "error", err)
				w.Error("ERR protocol limit exceeded")
			case errors.Is(err, ErrProtocol):
				w.Error("ERR protocol error: " + err.Error())
			default:
				s.logReadError(c, err)
				return
			}
			reply()
			return
		}

		if len(args) == 0 {
			w.Error("ERR no command")
			if !reply() {
				return
			}
			continue
		}

		keep := s.handler.Handle(ctx, client, w, args)
		if !reply() || !keep {
			return
		}
	}
}

func (s *Server) logReadError(c net.Conn, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		s.logger.Debug("redis connection timed out", "remote", c.RemoteAddr().String())
		return
	}
	s.logger.Debug("redis connection read error", "remote", c.RemoteAddr().String(), "error", err)
}
