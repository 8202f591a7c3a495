// Package shell runs external commands with timeout and retry handling.
package shell

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/recore3d/recored/internal/models"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 4 * time.Second
	defaultRetries = 1
)

// Service defines the interface for external command execution.
type Service interface {
	Run(ctx context.Context, command string) error
	RunWithResponse(ctx context.Context, command string) (string, error)
	RunWithInput(ctx context.Context, command, input string) (string, error)
}

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
	ExecuteWithInput(ctx context.Context, input, name string, args ...string) ([]byte, error)
}

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

// Execute runs a command and returns its combined output.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// ExecuteWithInput runs a command with the given string piped to stdin.
func (e *DefaultExecutor) ExecuteWithInput(ctx context.Context, input, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	return cmd.CombinedOutput()
}

// Impl implements the shell Service interface.
type Impl struct {
	executor CommandExecutor
	logger   zerolog.Logger
	timeout  time.Duration
	attempts int
}

// New creates a new shell service.
func New(logger zerolog.Logger, cfg models.ShellConfig) *Impl {
	return NewWithExecutor(logger, cfg, &DefaultExecutor{})
}

// NewWithExecutor creates a new shell service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, cfg models.ShellConfig, executor CommandExecutor) *Impl {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.Retries
	if attempts < 1 {
		attempts = defaultRetries
	}
	return &Impl{
		executor: executor,
		logger:   logger,
		timeout:  timeout,
		attempts: attempts,
	}
}

// Run executes a command, discarding its output.
func (s *Impl) Run(ctx context.Context, command string) error {
	_, err := s.run(ctx, command, "")
	return err
}

// RunWithResponse executes a command and returns its trimmed combined output.
func (s *Impl) RunWithResponse(ctx context.Context, command string) (string, error) {
	return s.run(ctx, command, "")
}

// RunWithInput executes a command with the given string piped to stdin and
// returns its trimmed combined output.
func (s *Impl) RunWithInput(ctx context.Context, command, input string) (string, error) {
	return s.run(ctx, command, input)
}

func (s *Impl) run(ctx context.Context, command, input string) (string, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return "", fmt.Errorf("empty command")
	}
	name, args := parts[0], parts[1:]

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		var out []byte
		var err error
		if input != "" {
			out, err = s.executor.ExecuteWithInput(attemptCtx, input, name, args...)
		} else {
			out, err = s.executor.Execute(attemptCtx, name, args...)
		}
		cancel()

		if err == nil {
			return strings.TrimSpace(string(out)), nil
		}

		lastErr = fmt.Errorf("command %q failed: %w, output: %s", name, err, strings.TrimSpace(string(out)))
		s.logger.Warn().
			Err(err).
			Str("command", name).
			Int("attempt", attempt).
			Int("max_attempts", s.attempts).
			Msg("command failed")

		// The parent context is gone, further attempts cannot succeed.
		if ctx.Err() != nil {
			break
		}
	}

	return "", lastErr
}
