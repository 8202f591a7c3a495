// Package recore translates high-level board intents into helper binary
// invocations. Mutations go through the privileged machine service, state
// queries run the read-only helpers directly.
package recore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/recore3d/recored/internal/models"
	"github.com/recore3d/recored/internal/services/machine"
	"github.com/recore3d/recored/internal/services/shell"
	"github.com/rs/zerolog"
)

// Helper binaries installed on the board image.
const (
	setSSHAccessBin = "/usr/local/bin/set-ssh-access"
	setBootMediaBin = "/usr/local/bin/set-boot-media"
	isSSHEnabledBin = "/usr/local/bin/is-ssh-enabled"
	getBootMediaBin = "/usr/local/bin/get-boot-media"
)

// Degraded state literals. A failing or silent helper never fails the state
// query, it shows up as one of these instead.
const (
	sshStateError  = "Error: reading SSH state failed"
	bootMediaError = "Error: reading boot media failed"
	stateUnknown   = "unknown"
)

// Service defines the interface for board control operations.
type Service interface {
	EnableSSH(ctx context.Context, value string) error
	SetBootMedia(ctx context.Context, media string) error
	State(ctx context.Context) models.RecoreState
	SignalReady()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Impl implements the recore Service interface.
type Impl struct {
	machineSvc machine.Service
	shellSvc   shell.Service
	logger     zerolog.Logger
	readyOnce  sync.Once
	ready      chan struct{}
}

// New creates a new recore service.
func New(logger zerolog.Logger, machineSvc machine.Service, shellSvc shell.Service) *Impl {
	return &Impl{
		machineSvc: machineSvc,
		shellSvc:   shellSvc,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// EnableSSH turns SSH access on or off. The value is passed to the helper
// binary unchanged; any failure from the privileged execution path is
// returned to the caller as is.
func (s *Impl) EnableSSH(ctx context.Context, value string) error {
	_, err := s.machineSvc.ExecSudoCommand(ctx, fmt.Sprintf("%s %s", setSSHAccessBin, value))
	return err
}

// SetBootMedia switches the boot media device. The media identifier is
// passed to the helper binary unchanged.
func (s *Impl) SetBootMedia(ctx context.Context, media string) error {
	_, err := s.machineSvc.ExecSudoCommand(ctx, fmt.Sprintf("%s %s", setBootMediaBin, media))
	return err
}

// State reports the current SSH and boot media state. Each query degrades
// independently: a shell failure yields its error literal and empty output
// yields "unknown", so State never fails outright.
func (s *Impl) State(ctx context.Context) models.RecoreState {
	return models.RecoreState{
		SSHEnabled: s.querySSHEnabled(ctx),
		BootMedia:  s.queryBootMedia(ctx),
	}
}

func (s *Impl) querySSHEnabled(ctx context.Context) string {
	resp, err := s.shellSvc.RunWithResponse(ctx, isSSHEnabledBin)
	if err != nil {
		s.logger.Warn().Err(err).Msg("ssh state query failed")
		return sshStateError
	}
	if resp == "" {
		return stateUnknown
	}
	return resp
}

func (s *Impl) queryBootMedia(ctx context.Context) string {
	resp, err := s.shellSvc.RunWithResponse(ctx, getBootMediaBin)
	if err != nil {
		s.logger.Warn().Err(err).Msg("boot media query failed")
		return bootMediaError
	}
	if resp == "" {
		return stateUnknown
	}
	return resp
}

// SignalReady marks startup as complete. Safe to call more than once; only
// the first call has any effect.
func (s *Impl) SignalReady() {
	s.readyOnce.Do(func() {
		close(s.ready)
	})
}

// WaitForReady blocks until SignalReady has been called. A timeout greater
// than zero bounds the wait; an elapsed timeout satisfies the wait rather
// than failing it. Context cancellation is the only error case.
func (s *Impl) WaitForReady(ctx context.Context, timeout time.Duration) error {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-s.ready:
		return nil
	case <-expired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
