package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/shutdown-timer/internal/config"
	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/fgeck/shutdown-timer/internal/services/console"
	"github.com/fgeck/shutdown-timer/internal/services/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func loadConfig() (*models.AppConfig, error) {
	parser := config.NewParser()
	if configFile == "" {
		return parser.LoadDefaults()
	}
	return parser.LoadFile(configFile)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	log.Debug().
		Str("platform", cfg.Power.Platform).
		Str("command", cfg.Power.Command).
		Msg("configuration loaded")

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := console.New(cfg.Display)

	// Reads from the console do not observe ctx, so a signal ends the process.
	stop := handleSignals(ctx, cancel, term.Restore, os.Exit)
	defer stop()

	return session.New(log.Logger, *cfg, term).Run(ctx)
}

// exitCodeInterrupted is the shell convention for death by SIGINT.
const exitCodeInterrupted = 130

// exitCodeFor follows the shell's 128+signal convention.
func exitCodeFor(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return exitCodeInterrupted
}

// handleSignals cancels ctx, restores the terminal and exits on SIGINT or
// SIGTERM. The returned function stops listening.
func handleSignals(ctx context.Context, cancel context.CancelFunc, restore func(), exit func(int)) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Warn().Str("signal", sig.String()).Msg("received signal, exiting")
			cancel()
			restore()
			exit(exitCodeFor(sig))
		case <-ctx.Done():
		}
	}()

	return func() { signal.Stop(sigChan) }
}
