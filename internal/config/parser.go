// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/recore3d/recored/internal/models"
	"github.com/spf13/viper"
)

const (
	defaultHost         = "0.0.0.0"
	defaultPort         = 7225
	defaultShellTimeout = 4 * time.Second
	defaultShellRetries = 1
	defaultSSHCheckHost = "localhost"
	defaultSSHCheckPort = 22
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Config, error) {
	cfg := &models.Config{}

	cfg.Server = models.ServerConfig{
		Host: p.v.GetString("server.host"),
		Port: p.v.GetInt("server.port"),
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}

	cfg.Machine = models.MachineConfig{
		SudoPassword: p.expandEnv(p.v.GetString("machine.sudo_password")),
	}

	cfg.Shell = models.ShellConfig{
		Timeout: p.v.GetDuration("shell.timeout"),
		Retries: p.v.GetInt("shell.retries"),
	}
	if cfg.Shell.Timeout == 0 {
		cfg.Shell.Timeout = defaultShellTimeout
	}
	if !p.v.IsSet("shell.retries") {
		cfg.Shell.Retries = defaultShellRetries
	}

	cfg.SSHCheck = models.SSHCheckConfig{
		Host: p.v.GetString("ssh_check.host"),
		Port: p.v.GetInt("ssh_check.port"),
	}
	if cfg.SSHCheck.Host == "" {
		cfg.SSHCheck.Host = defaultSSHCheckHost
	}
	if cfg.SSHCheck.Port == 0 {
		cfg.SSHCheck.Port = defaultSSHCheckPort
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if cfg.Shell.Timeout <= 0 {
		return fmt.Errorf("shell.timeout must be positive")
	}

	if cfg.Shell.Retries < 1 {
		return fmt.Errorf("shell.retries must be at least 1")
	}

	if cfg.SSHCheck.Port < 1 || cfg.SSHCheck.Port > 65535 {
		return fmt.Errorf("ssh_check.port must be between 1 and 65535")
	}

	return nil
}
