package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recore3d/recored/internal/config"
	"github.com/recore3d/recored/internal/server"
	"github.com/recore3d/recored/internal/services/machine"
	"github.com/recore3d/recored/internal/services/recore"
	"github.com/recore3d/recored/internal/services/shell"
	"github.com/recore3d/recored/internal/services/sshcheck"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board control daemon",
	Long: `Run the HTTP daemon serving:
  POST /recore/enable_ssh      enable or disable SSH access
  POST /recore/set_boot_media  switch the boot media device
  GET  /recore/state           current SSH and boot media state
  GET  /recore/ssh_check       probe whether sshd accepts connections
  POST /server/remote_method   invoke a registered remote method`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	log.Info().
		Str("config", configFile).
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("configuration loaded")

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	// Wire the collaborator graph with explicit references.
	shellSvc := shell.New(log.Logger, cfg.Shell)
	machineSvc := machine.New(log.Logger, shellSvc, cfg.Machine)
	recoreSvc := recore.New(log.Logger, machineSvc, shellSvc)
	sshCheckSvc := sshcheck.New(log.Logger)

	srv := server.New(log.Logger, cfg.Server, recoreSvc, sshCheckSvc, cfg.SSHCheck)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Startup is complete once the listener is running.
	recoreSvc.SignalReady()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
			return err
		}
		return <-errChan
	case err := <-errChan:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
		return err
	}
}
