package keepalive

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mercator-hq/egressprobe/pkg/config"
	"mercator-hq/egressprobe/pkg/telemetry/logging"
)

// DefaultShutdownTimeout bounds how long in-flight requests may take to
// drain once the server is asked to stop.
const DefaultShutdownTimeout = 5 * time.Second

// BindError reports that the listen address could not be bound.
type BindError struct {
	Address string
	Err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Address, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Server is the keep-alive HTTP responder.
type Server struct {
	address         string
	body            string
	logger          *logging.Logger
	shutdownTimeout time.Duration

	listener     net.Listener
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a responder for cfg. A nil logger discards records.
func NewServer(cfg config.KeepAliveConfig, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	body := cfg.Body
	if body == "" {
		body = config.DefaultKeepAliveBody
	}
	address := cfg.ListenAddress
	if address == "" {
		address = config.DefaultListenAddress
	}

	return &Server{
		address:         address,
		body:            body,
		logger:          logger,
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// Listen binds the listen address. It is called by Start when needed, and
// may be called earlier to learn about a port conflict before serving.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return &BindError{Address: s.address, Err: err}
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start serves until ctx is cancelled, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln := s.listener
	srv := s.httpServer
	s.mu.Unlock()

	logger := s.logger.WithContext(ctx)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("keep-alive server listening", "address", ln.Addr().String())

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the server. Only the first call has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			if s.listener != nil {
				s.listener.Close()
			}
			s.mu.Unlock()
			return
		}
		srv := s.httpServer
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.shutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("keep-alive server stopped")
	})

	return shutdownErr
}

// Handler returns the responder's router. Requests are not logged.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleAlive)
	r.Get("/*", s.handleAlive)

	return r
}

func (s *Server) handleAlive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.body))
}
