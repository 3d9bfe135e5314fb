package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  `Validate the configuration (file, environment and defaults) without touching the power state.`,
	Args:  cobra.NoArgs,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	// Check if file exists
	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			log.Error().Str("file", configFile).Msg("config file not found")
			return fmt.Errorf("config file not found: %s", configFile)
		}
	}

	// Loading validates the configuration.
	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("configuration validation failed")
		return err
	}

	out := cmd.OutOrStdout()

	// Print configuration summary
	fmt.Fprintln(out, "Configuration is valid!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Power:")
	fmt.Fprintf(out, "  Platform: %s\n", cfg.Power.Platform)
	fmt.Fprintf(out, "  Command: %s\n", cfg.Power.Command)
	if cfg.Power.Platform == "linux" {
		fmt.Fprintf(out, "  Firmware command: %s\n", cfg.Power.FirmwareCommand)
	}
	fmt.Fprintf(out, "  Force restart: %v\n", cfg.Power.ForceRestart)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Known outcomes:")
	fmt.Fprintf(out, "  Nothing scheduled: codes %v, messages %q\n",
		cfg.Power.Patterns.BenignExitCodes, cfg.Power.Patterns.BenignMessages)
	fmt.Fprintf(out, "  Privilege required: codes %v, messages %q\n",
		cfg.Power.Patterns.PrivilegeExitCodes, cfg.Power.Patterns.PrivilegeMessages)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Display:")
	fmt.Fprintf(out, "  Color: %s\n", cfg.Display.Color)
	fmt.Fprintf(out, "  Clear screen: %v\n", cfg.Display.ClearScreen)
	fmt.Fprintf(out, "  Pause on exit: %v\n", cfg.Display.PauseOnExit)

	return nil
}
