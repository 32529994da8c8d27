package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/avr"
	"github.com/dalymople/avrsetup/internal/entries"
	"github.com/dalymople/avrsetup/internal/flow"
	"github.com/dalymople/avrsetup/internal/logging"
	"github.com/dalymople/avrsetup/internal/protocol"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	LogLevel string

	// Passive enables the SSDP announcement monitor. Announcements from
	// supported receivers open flows that wait at the settings step for a
	// client to finish them.
	Passive bool
}

// Server exposes the setup flow engine over HTTP and streams flow and
// discovery events to WebSocket subscribers.
type Server struct {
	config  *Config
	manager *flow.Manager
	store   *entries.Store
	hub     *Hub
	watcher *avr.Watcher

	httpServer *http.Server
	listener   net.Listener
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	mu      sync.Mutex
	results map[string]protocol.StepResult // last result per live flow
	passive map[string]string              // unique id -> flow id for pending passive flows
}

// New creates a new Server instance
func New(config *Config, manager *flow.Manager, store *entries.Store) (*Server, error) {
	// Initialize logging
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return &Server{
		config:  config,
		manager: manager,
		store:   store,
		hub:     NewHub(),
		watcher: avr.NewWatcher(),
		results: make(map[string]protocol.StepResult),
		passive: make(map[string]string),
	}, nil
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	logging.Info("Starting avrsetup flow API server",
		zap.String("addr", addr),
		zap.String("log_level", s.config.LogLevel),
		zap.Bool("passive_discovery", s.config.Passive),
		zap.String("entries_file", s.store.Path()),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	defer cancel()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.hub.Run(ctx)
	}()

	if s.config.Passive {
		payloads, err := s.watcher.Start(ctx)
		if err != nil {
			// Multicast may be unavailable on this interface. The API
			// still works without announcements.
			logging.Error("Passive discovery unavailable", zap.Error(err))
		} else {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.watchAnnouncements(ctx, payloads)
			}()
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Server listening for requests", zap.String("addr", addr))

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	// Wait for shutdown signal or listener error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	// Stop accepting requests and drain the in-flight ones. WebSocket
	// connections are hijacked and not covered here; cancelling the run
	// context below winds those down through the hub.
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(err))
		}
	}

	if s.cancel != nil {
		s.cancel()
	}

	// Wait for the hub, monitor and connection pumps with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	// Sync logger
	logging.Sync()

	return nil
}

// record keeps the last result per live flow and drops the bookkeeping
// of flows a terminal result just ended.
func (s *Server) record(result protocol.StepResult) {
	if result.Terminal() {
		s.dropFlow(result.FlowID)
		return
	}

	s.mu.Lock()
	s.results[result.FlowID] = result
	s.mu.Unlock()
}

// dropFlow removes all bookkeeping for a finished or abandoned flow and
// disposes the instance.
func (s *Server) dropFlow(id string) {
	s.mu.Lock()
	delete(s.results, id)
	for uid, fid := range s.passive {
		if fid == id {
			delete(s.passive, uid)
			break
		}
	}
	s.mu.Unlock()

	s.manager.Dispose(id)
}

// ActiveFlows returns the number of flows awaiting input
func (s *Server) ActiveFlows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
