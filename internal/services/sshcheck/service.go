// Package sshcheck probes whether the board's sshd accepts connections.
package sshcheck

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/recore3d/recored/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

const dialTimeout = 5 * time.Second

// Service defines the interface for sshd reachability probes.
type Service interface {
	Probe(ctx context.Context, cfg models.SSHCheckConfig) *models.SSHCheckResult
}

// Dialer performs a single SSH handshake attempt. Wrapped for mocking.
type Dialer interface {
	Dial(network, addr string, config *ssh.ClientConfig) error
}

// DefaultDialer is the default dialer using golang.org/x/crypto/ssh.
type DefaultDialer struct{}

// Dial attempts an SSH handshake and closes the connection on success.
func (d *DefaultDialer) Dial(network, addr string, config *ssh.ClientConfig) error {
	client, err := ssh.Dial(network, addr, config)
	if err != nil {
		return err
	}
	return client.Close()
}

// Impl implements the sshcheck Service interface.
type Impl struct {
	dialer Dialer
	logger zerolog.Logger
}

// New creates a new sshcheck service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		dialer: &DefaultDialer{},
		logger: logger,
	}
}

// NewWithDialer creates a new sshcheck service with a custom dialer (for testing).
func NewWithDialer(logger zerolog.Logger, dialer Dialer) *Impl {
	return &Impl{
		dialer: dialer,
		logger: logger,
	}
}

// Probe dials the configured address and reports whether sshd answered. The
// probe carries no credentials, so an authentication rejection still counts
// as reachable: it proves the daemon accepted the connection and completed
// the handshake.
func (s *Impl) Probe(ctx context.Context, cfg models.SSHCheckConfig) *models.SSHCheckResult {
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	sshConfig := &ssh.ClientConfig{
		User:            "recored-probe",
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // probing the local board
		Timeout:         dialTimeout,
	}

	s.logger.Debug().Str("addr", addr).Msg("probing sshd")

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.dialer.Dial("tcp", addr, sshConfig)
	}()

	var err error
	select {
	case <-ctx.Done():
		return &models.SSHCheckResult{Reachable: false, Detail: ctx.Err().Error()}
	case err = <-errChan:
	}

	if err == nil {
		return &models.SSHCheckResult{Reachable: true, Detail: "sshd accepted the connection"}
	}
	if strings.Contains(err.Error(), "unable to authenticate") {
		return &models.SSHCheckResult{Reachable: true, Detail: "sshd is accepting connections"}
	}

	s.logger.Debug().Err(err).Str("addr", addr).Msg("sshd probe failed")
	return &models.SSHCheckResult{Reachable: false, Detail: err.Error()}
}
