package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go-hris-admin/internal/audit"

	"go.uber.org/zap"
)

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StartHTTPServer listens on cfg.Port and serves until ctx is cancelled.
func StartHTTPServer(ctx context.Context, handler http.Handler, cfg ServerConfig, auditLogger audit.Logger) error {
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, handler, cfg, auditLogger)
}

// Serve runs the server on ln with graceful shutdown once ctx is done.
// The shutdown is written to the audit trail before connections drain.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, cfg ServerConfig, auditLogger audit.Logger) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server running", zap.String("addr", ln.Addr().String()))
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zap.L().Info("Shutdown signal received", zap.NamedError("cause", context.Cause(ctx)))

	// Audit log BEFORE shutdown
	auditLogger.Log(context.WithoutCancel(ctx), audit.Entry{
		EventType: "server.shutdown",
		Entity:    "server",
		Action:    "shutdown",
		Message:   "Server is shutting down",
		Meta: map[string]any{
			"addr": ln.Addr().String(),
		},
	})

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
		return err
	}
	zap.L().Info("Server exited gracefully")
	return nil
}
