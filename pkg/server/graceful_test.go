package server

import (
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/dd0wney/cluso-guidelines/pkg/config"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
)

func testConfig() config.ServerConfig {
	cfg := config.Default().Server
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func startServer(t *testing.T, gs *GracefulServer) (string, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- gs.Serve(ln) }()
	return "http://" + ln.Addr().String(), errCh
}

func TestGracefulServer_ServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	gs := NewGracefulServer(testConfig(), handler, logging.NewNopLogger())
	base, errCh := startServer(t, gs)

	resp, err := http.Get(base + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	if err := gs.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}
	if !gs.IsShuttingDown() {
		t.Error("IsShuttingDown should be true after Shutdown")
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after shutdown")
	}
}

func TestGracefulServer_ConfigReload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gs := NewGracefulServer(testConfig(), handler, logging.NewNopLogger())

	reloaded := make(chan struct{}, 1)
	gs.SetConfigReloadFunc(func() error {
		reloaded <- struct{}{}
		return nil
	})

	_, errCh := startServer(t, gs)
	deadline := time.Now().Add(2 * time.Second)
	for gs.Addr() == "" {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("Failed to send SIGHUP: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Error("reload function was not called after SIGHUP")
	}
	if gs.IsShuttingDown() {
		t.Error("Server should not be shutting down after SIGHUP")
	}

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
	<-errCh
}

func TestGracefulServer_ReloadConfig(t *testing.T) {
	gs := NewGracefulServer(testConfig(), http.NotFoundHandler(), nil)

	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("reload without function should succeed, got %v", err)
	}

	wantErr := errors.New("bad config")
	gs.SetConfigReloadFunc(func() error { return wantErr })
	if err := gs.ReloadConfig(); !errors.Is(err, wantErr) {
		t.Errorf("ReloadConfig() = %v, want %v", err, wantErr)
	}
}

func TestGracefulServer_ShutdownIdempotent(t *testing.T) {
	gs := NewGracefulServer(testConfig(), http.NotFoundHandler(), nil)
	if err := gs.Shutdown(time.Second); err != nil {
		t.Fatalf("first Shutdown: %v", err)
	}
	if err := gs.Shutdown(time.Second); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}
