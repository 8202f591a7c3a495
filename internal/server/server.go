// Package server exposes the HTTP request facade for board control.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/recore3d/recored/internal/models"
	"github.com/recore3d/recored/internal/services/recore"
	"github.com/recore3d/recored/internal/services/sshcheck"
	"github.com/rs/zerolog"
)

const readHeaderTimeout = 5 * time.Second

// Server routes board control requests to the recore service.
type Server struct {
	recoreSvc   recore.Service
	sshCheckSvc sshcheck.Service
	sshCheckCfg models.SSHCheckConfig
	remote      *RemoteMethodRegistry
	logger      zerolog.Logger
	httpSrv     *http.Server
}

// New creates a new server with explicit collaborator references.
func New(
	logger zerolog.Logger,
	cfg models.ServerConfig,
	recoreSvc recore.Service,
	sshCheckSvc sshcheck.Service,
	sshCheckCfg models.SSHCheckConfig,
) *Server {
	s := &Server{
		recoreSvc:   recoreSvc,
		sshCheckSvc: sshCheckSvc,
		sshCheckCfg: sshCheckCfg,
		remote:      NewRemoteMethodRegistry(logger),
		logger:      logger,
	}

	s.registerRemoteMethods()

	s.httpSrv = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		Handler:           s.router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/recore/enable_ssh", s.handleMachineRequest)
	r.Post("/recore/set_boot_media", s.handleMachineRequest)
	r.Get("/recore/state", s.handleState)
	r.Get("/recore/ssh_check", s.handleSSHCheck)
	r.Post("/server/remote_method", s.handleRemoteMethod)

	r.NotFound(s.handleUnsupported)
	r.MethodNotAllowed(s.handleUnsupported)

	return r
}

// registerRemoteMethods binds the provider operations for the host's
// internal RPC mechanism.
func (s *Server) registerRemoteMethods() {
	_ = s.remote.Register("enable_ssh", func(ctx context.Context, params map[string]any) error {
		value, err := paramString(params, "value")
		if err != nil {
			return err
		}
		return s.recoreSvc.EnableSSH(ctx, value)
	})
	_ = s.remote.Register("set_boot_media", func(ctx context.Context, params map[string]any) error {
		value, err := paramString(params, "value")
		if err != nil {
			return err
		}
		return s.recoreSvc.SetBootMedia(ctx, value)
	})
}

// Handler returns the HTTP handler (for testing).
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// RemoteMethods returns the registry for in-process invocations.
func (s *Server) RemoteMethods() *RemoteMethodRegistry {
	return s.remote
}

// Start runs the HTTP listener until it is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpSrv.Addr).Msg("starting server")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")
	return s.httpSrv.Shutdown(ctx)
}
