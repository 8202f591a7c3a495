// Package models contains the data structures used throughout recored.
package models

import "time"

// Config holds the complete daemon configuration.
type Config struct {
	Server   ServerConfig
	Machine  MachineConfig
	Shell    ShellConfig
	SSHCheck SSHCheckConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int
}

// MachineConfig holds privileged execution settings.
type MachineConfig struct {
	SudoPassword string // optional, fed to sudo -S on stdin when set
}

// ShellConfig controls external command execution.
type ShellConfig struct {
	Timeout time.Duration // per attempt
	Retries int           // total attempts, minimum 1
}

// SSHCheckConfig holds the sshd reachability probe target.
type SSHCheckConfig struct {
	Host string
	Port int
}
