// Package config provides configuration file parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/spf13/viper"
)

// Windows system error codes reported by shutdown.exe.
const (
	ErrorNoShutdownInProgress = 1116
	ErrorPrivilegeNotHeld     = 1314
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SHUTDOWN_TIMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("power.platform", "auto")
	v.SetDefault("power.firmware_command", "systemctl")
	v.SetDefault("power.force_restart", true)
	v.SetDefault("display.color", "auto")
	v.SetDefault("display.clear_screen", true)
	v.SetDefault("display.pause_on_exit", true)

	return &Parser{v: v}
}

// LoadDefaults builds the configuration from defaults and environment only.
func (p *Parser) LoadDefaults() (*models.AppConfig, error) {
	return p.parse()
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.AppConfig, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a reader (useful for testing).
func (p *Parser) LoadReader(content string) (*models.AppConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.AppConfig, error) {
	cfg := &models.AppConfig{}

	platform := strings.ToLower(p.expandEnv(p.v.GetString("power.platform")))
	if platform == "" || platform == "auto" {
		platform = runtime.GOOS
	}

	cfg.Power = models.PowerConfig{
		Platform:        platform,
		Command:         p.expandEnv(p.v.GetString("power.command")),
		FirmwareCommand: p.expandEnv(p.v.GetString("power.firmware_command")),
		ForceRestart:    p.v.GetBool("power.force_restart"),
	}

	defaults := DefaultPatterns(platform)
	cfg.Power.Patterns = models.MessagePatterns{
		BenignExitCodes:    p.intSliceOr("power.benign_exit_codes", defaults.BenignExitCodes),
		BenignMessages:     p.stringSliceOr("power.benign_messages", defaults.BenignMessages),
		PrivilegeExitCodes: p.intSliceOr("power.privilege_exit_codes", defaults.PrivilegeExitCodes),
		PrivilegeMessages:  p.stringSliceOr("power.privilege_messages", defaults.PrivilegeMessages),
	}

	// Default the tool per platform.
	if cfg.Power.Command == "" {
		switch platform {
		case "windows":
			cfg.Power.Command = "shutdown.exe"
		default:
			cfg.Power.Command = "shutdown"
		}
	}

	cfg.Display = models.DisplaySettings{
		Color:       strings.ToLower(p.v.GetString("display.color")),
		ClearScreen: p.v.GetBool("display.clear_screen"),
		PauseOnExit: p.v.GetBool("display.pause_on_exit"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPatterns returns the known tool outcomes for a platform. Windows
// reports system error codes, the linux tools exit with generic codes so
// only the message text identifies the failure.
func DefaultPatterns(platform string) models.MessagePatterns {
	if platform == "linux" {
		return models.MessagePatterns{
			BenignMessages: []string{"no shutdown was in progress"},
			PrivilegeMessages: []string{
				"required privilege is not held",
				"access denied",
				"interactive authentication required",
				"must be root",
			},
		}
	}

	return models.MessagePatterns{
		BenignExitCodes:    []int{ErrorNoShutdownInProgress},
		BenignMessages:     []string{"no shutdown was in progress"},
		PrivilegeExitCodes: []int{ErrorPrivilegeNotHeld},
		PrivilegeMessages:  []string{"required privilege is not held"},
	}
}

func (p *Parser) intSliceOr(key string, def []int) []int {
	if !p.v.IsSet(key) {
		return def
	}
	return p.v.GetIntSlice(key)
}

func (p *Parser) stringSliceOr(key string, def []string) []string {
	if !p.v.IsSet(key) {
		return def
	}
	return p.v.GetStringSlice(key)
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.AppConfig) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	validPlatforms := map[string]bool{"windows": true, "linux": true}
	if !validPlatforms[cfg.Power.Platform] {
		return fmt.Errorf("power.platform must be one of: auto, windows, linux (got %q)", cfg.Power.Platform)
	}

	if cfg.Power.Command == "" {
		return errors.New("power.command is required")
	}

	if cfg.Power.Platform == "linux" && cfg.Power.FirmwareCommand == "" {
		return errors.New("power.firmware_command is required on linux")
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[cfg.Display.Color] {
		return fmt.Errorf("display.color must be one of: auto, always, never")
	}

	return nil
}
