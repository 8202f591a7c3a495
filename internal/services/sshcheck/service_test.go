package sshcheck

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/recore3d/recored/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/ssh"
)

// mockDialer is a mock implementation of Dialer for testing.
type mockDialer struct {
	dialFunc func(network, addr string, config *ssh.ClientConfig) error
}

func (m *mockDialer) Dial(network, addr string, config *ssh.ClientConfig) error {
	if m.dialFunc != nil {
		return m.dialFunc(network, addr, config)
	}
	return nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testConfig() models.SSHCheckConfig {
	return models.SSHCheckConfig{Host: "localhost", Port: 22}
}

func TestProbe_HandshakeSucceeds(t *testing.T) {
	var gotAddr string
	dialer := &mockDialer{
		dialFunc: func(network, addr string, config *ssh.ClientConfig) error {
			gotAddr = addr
			return nil
		},
	}

	svc := NewWithDialer(testLogger(), dialer)
	result := svc.Probe(context.Background(), testConfig())

	assert.True(t, result.Reachable)
	assert.Equal(t, "localhost:22", gotAddr)
}

func TestProbe_AuthRejectionIsReachable(t *testing.T) {
	dialer := &mockDialer{
		dialFunc: func(network, addr string, config *ssh.ClientConfig) error {
			return errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none]")
		},
	}

	svc := NewWithDialer(testLogger(), dialer)
	result := svc.Probe(context.Background(), testConfig())

	assert.True(t, result.Reachable)
}

func TestProbe_ConnectionRefused(t *testing.T) {
	dialer := &mockDialer{
		dialFunc: func(network, addr string, config *ssh.ClientConfig) error {
			return errors.New("dial tcp 127.0.0.1:22: connect: connection refused")
		},
	}

	svc := NewWithDialer(testLogger(), dialer)
	result := svc.Probe(context.Background(), testConfig())

	assert.False(t, result.Reachable)
	assert.Contains(t, result.Detail, "connection refused")
}

func TestProbe_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	dialer := &mockDialer{
		dialFunc: func(network, addr string, config *ssh.ClientConfig) error {
			<-block
			return nil
		},
	}
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewWithDialer(testLogger(), dialer)
	result := svc.Probe(ctx, testConfig())

	assert.False(t, result.Reachable)
	assert.Contains(t, result.Detail, "context canceled")
}
