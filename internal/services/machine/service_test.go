package machine

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/recore3d/recored/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockShell is a mock implementation of shell.Service for testing.
type mockShell struct {
	runFunc             func(ctx context.Context, command string) error
	runWithResponseFunc func(ctx context.Context, command string) (string, error)
	runWithInputFunc    func(ctx context.Context, command, input string) (string, error)
}

func (m *mockShell) Run(ctx context.Context, command string) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, command)
	}
	return nil
}

func (m *mockShell) RunWithResponse(ctx context.Context, command string) (string, error) {
	if m.runWithResponseFunc != nil {
		return m.runWithResponseFunc(ctx, command)
	}
	return "", nil
}

func (m *mockShell) RunWithInput(ctx context.Context, command, input string) (string, error) {
	if m.runWithInputFunc != nil {
		return m.runWithInputFunc(ctx, command, input)
	}
	return "", nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestExecSudoCommand_Passwordless(t *testing.T) {
	var gotCommand string
	shellSvc := &mockShell{
		runWithResponseFunc: func(ctx context.Context, command string) (string, error) {
			gotCommand = command
			return "ok", nil
		},
	}

	svc := New(testLogger(), shellSvc, models.MachineConfig{})
	out, err := svc.ExecSudoCommand(context.Background(), "/usr/local/bin/set-ssh-access on")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "sudo /usr/local/bin/set-ssh-access on", gotCommand)
}

func TestExecSudoCommand_WithPassword(t *testing.T) {
	var gotCommand, gotInput string
	shellSvc := &mockShell{
		runWithInputFunc: func(ctx context.Context, command, input string) (string, error) {
			gotCommand = command
			gotInput = input
			return "", nil
		},
	}

	svc := New(testLogger(), shellSvc, models.MachineConfig{SudoPassword: "hunter2"})
	_, err := svc.ExecSudoCommand(context.Background(), "/usr/local/bin/set-boot-media usb")

	require.NoError(t, err)
	assert.Equal(t, "sudo -S /usr/local/bin/set-boot-media usb", gotCommand)
	assert.Equal(t, "hunter2\n", gotInput)
}

func TestExecSudoCommand_PropagatesError(t *testing.T) {
	shellSvc := &mockShell{
		runWithResponseFunc: func(ctx context.Context, command string) (string, error) {
			return "", errors.New("sudo: a password is required")
		},
	}

	svc := New(testLogger(), shellSvc, models.MachineConfig{})
	_, err := svc.ExecSudoCommand(context.Background(), "/usr/local/bin/set-ssh-access off")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}
