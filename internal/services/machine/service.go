// Package machine provides privileged command execution on the host system.
package machine

import (
	"context"

	"github.com/recore3d/recored/internal/models"
	"github.com/recore3d/recored/internal/services/shell"
	"github.com/rs/zerolog"
)

// Service defines the interface for privileged machine operations.
type Service interface {
	ExecSudoCommand(ctx context.Context, command string) (string, error)
}

// Impl implements the machine Service interface.
type Impl struct {
	shellSvc     shell.Service
	logger       zerolog.Logger
	sudoPassword string
}

// New creates a new machine service on top of the given shell service.
func New(logger zerolog.Logger, shellSvc shell.Service, cfg models.MachineConfig) *Impl {
	return &Impl{
		shellSvc:     shellSvc,
		logger:       logger,
		sudoPassword: cfg.SudoPassword,
	}
}

// ExecSudoCommand runs a command with elevated privileges. When a sudo
// password is configured it is supplied on stdin via sudo -S, otherwise
// passwordless sudo is assumed.
func (s *Impl) ExecSudoCommand(ctx context.Context, command string) (string, error) {
	s.logger.Debug().Str("command", command).Msg("executing sudo command")

	if s.sudoPassword != "" {
		return s.shellSvc.RunWithInput(ctx, "sudo -S "+command, s.sudoPassword+"\n")
	}
	return s.shellSvc.RunWithResponse(ctx, "sudo "+command)
}
