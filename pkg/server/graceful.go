// Package server wraps net/http with signal-driven graceful shutdown and
// configuration reload.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-guidelines/pkg/config"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
)

// ConfigReloadFunc is a function that reloads configuration
type ConfigReloadFunc func() error

// GracefulServer wraps an HTTP server with graceful shutdown capabilities
type GracefulServer struct {
	server          *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
	shutdownErr     error
	configReloadFn  ConfigReloadFunc
	configMu        sync.RWMutex
	addrMu          sync.Mutex
	listenAddr      string
}

// NewGracefulServer creates a server with the timeouts from cfg.
func NewGracefulServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    1 << 20,
		},
		logger:          logger.With(logging.Component("server")),
		shutdownTimeout: cfg.ShutdownTimeout,
		shutdownCh:      make(chan struct{}),
	}
}

// Start listens on the configured address and serves until shutdown.
// SIGINT and SIGTERM trigger a graceful shutdown; SIGHUP reloads
// configuration.
func (gs *GracefulServer) Start() error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	return gs.Serve(ln)
}

// Serve is Start on an existing listener.
func (gs *GracefulServer) Serve(ln net.Listener) error {
	stop := gs.handleSignals()
	defer stop()

	gs.addrMu.Lock()
	gs.listenAddr = ln.Addr().String()
	gs.addrMu.Unlock()

	gs.logger.Info("Starting HTTP server", logging.String("addr", ln.Addr().String()))
	if err := gs.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-gs.shutdownCh
	return gs.shutdownErr
}

// Addr returns the bound address once signal handling is installed and
// serving has begun; it is empty before that.
func (gs *GracefulServer) Addr() string {
	gs.addrMu.Lock()
	defer gs.addrMu.Unlock()
	return gs.listenAddr
}

// Shutdown initiates a graceful shutdown
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	gs.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("Initiating graceful shutdown", logging.Duration("timeout", timeout))

		if err := gs.server.Shutdown(ctx); err != nil {
			gs.shutdownErr = err
			gs.logger.Error("Error during shutdown", logging.Error(err))
		} else {
			gs.logger.Info("Server shutdown complete")
		}
		close(gs.shutdownCh)
	})
	<-gs.shutdownCh
	return gs.shutdownErr
}

// handleSignals listens for OS signals until the returned stop is called.
func (gs *GracefulServer) handleSignals() (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGINT, syscall.SIGTERM:
					gs.logger.Info("Received shutdown signal", logging.String("signal", sig.String()))
					go func() { _ = gs.Shutdown(gs.shutdownTimeout) }()
				case syscall.SIGHUP:
					gs.logger.Info("Received SIGHUP, reloading configuration")
					_ = gs.ReloadConfig()
				}
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// IsShuttingDown returns true if shutdown has completed or is in progress
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown completes
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetConfigReloadFunc sets the function to call when configuration reload is triggered
func (gs *GracefulServer) SetConfigReloadFunc(fn ConfigReloadFunc) {
	gs.configMu.Lock()
	defer gs.configMu.Unlock()
	gs.configReloadFn = fn
}

// ReloadConfig triggers a configuration reload
func (gs *GracefulServer) ReloadConfig() error {
	gs.configMu.RLock()
	reloadFn := gs.configReloadFn
	gs.configMu.RUnlock()

	if reloadFn == nil {
		gs.logger.Warn("Configuration reload requested, but no reload function configured")
		return nil
	}

	if err := reloadFn(); err != nil {
		gs.logger.Error("Configuration reload failed", logging.Error(err))
		return err
	}

	gs.logger.Info("Configuration reload complete")
	return nil
}
