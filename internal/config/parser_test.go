package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReader_Defaults(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadReader("")

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 7225, cfg.Server.Port)
	assert.Empty(t, cfg.Machine.SudoPassword)
	assert.Equal(t, 4*time.Second, cfg.Shell.Timeout)
	assert.Equal(t, 1, cfg.Shell.Retries)
	assert.Equal(t, "localhost", cfg.SSHCheck.Host)
	assert.Equal(t, 22, cfg.SSHCheck.Port)
}

func TestLoadReader_FullConfig(t *testing.T) {
	content := `
server:
  host: 127.0.0.1
  port: 8080
machine:
  sudo_password: hunter2
shell:
  timeout: 10s
  retries: 3
ssh_check:
  host: recore.local
  port: 2222
`

	parser := NewParser()
	cfg, err := parser.LoadReader(content)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "hunter2", cfg.Machine.SudoPassword)
	assert.Equal(t, 10*time.Second, cfg.Shell.Timeout)
	assert.Equal(t, 3, cfg.Shell.Retries)
	assert.Equal(t, "recore.local", cfg.SSHCheck.Host)
	assert.Equal(t, 2222, cfg.SSHCheck.Port)
}

func TestLoadReader_ExpandsSudoPasswordEnv(t *testing.T) {
	t.Setenv("RECORE_SUDO_PASSWORD", "secret")

	content := `
machine:
  sudo_password: ${RECORE_SUDO_PASSWORD}
`

	parser := NewParser()
	cfg, err := parser.LoadReader(content)

	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Machine.SudoPassword)
}

func TestLoadReader_InvalidRetries(t *testing.T) {
	content := `
shell:
  retries: 0
`

	parser := NewParser()
	_, err := parser.LoadReader(content)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "shell.retries")
}

func TestLoadReader_InvalidPort(t *testing.T) {
	content := `
server:
  port: 70000
`

	parser := NewParser()
	_, err := parser.LoadReader(content)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidate_NilConfig(t *testing.T) {
	err := Validate(nil)
	assert.Error(t, err)
}
