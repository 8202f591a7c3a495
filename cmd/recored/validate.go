package main

import (
	"fmt"
	"os"

	"github.com/recore3d/recored/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without starting the daemon.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  Listen: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  Shell timeout: %s\n", cfg.Shell.Timeout)
	fmt.Printf("  Shell retries: %d\n", cfg.Shell.Retries)
	fmt.Printf("  Sudo password: %v\n", cfg.Machine.SudoPassword != "")
	fmt.Printf("  SSH check target: %s:%d\n", cfg.SSHCheck.Host, cfg.SSHCheck.Port)

	return nil
}
