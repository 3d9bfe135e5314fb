// Package power schedules and cancels OS shutdowns and restarts through the
// platform's shutdown tool.
package power

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/rs/zerolog"
)

// ErrUnsupportedPlatform indicates there is no command table for the configured platform.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Service defines the interface for OS power operations.
type Service interface {
	Schedule(ctx context.Context, action models.PowerAction) (*models.OperationResult, error)
	Cancel(ctx context.Context) (*models.OperationResult, error)
}

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) (*models.OperationResult, error)
}

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

// Execute runs a command to completion and captures its exit code and error text.
// A non-zero exit is reported in the result, the returned error means the
// command could not be run at all.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args ...string) (*models.OperationResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	hideWindow(cmd)

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result := &models.OperationResult{
		Message: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", name, err)
		}
		result.ExitCode = exitErr.ExitCode()
		if result.Message == "" {
			result.Message = strings.TrimSpace(stdout.String())
		}
	}

	result.Succeeded = result.ExitCode == 0 && result.Message == ""
	return result, nil
}

// Impl implements the power Service interface.
type Impl struct {
	executor CommandExecutor
	cfg      models.PowerConfig
	logger   zerolog.Logger
}

// New creates a new power service.
func New(logger zerolog.Logger, cfg models.PowerConfig) *Impl {
	return &Impl{
		executor: &DefaultExecutor{},
		cfg:      cfg,
		logger:   logger,
	}
}

// NewWithExecutor creates a new power service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, cfg models.PowerConfig, executor CommandExecutor) *Impl {
	return &Impl{
		executor: executor,
		cfg:      cfg,
		logger:   logger,
	}
}

// Schedule asks the OS to perform action after its delay.
func (s *Impl) Schedule(ctx context.Context, action models.PowerAction) (*models.OperationResult, error) {
	if action.DelaySeconds < 0 {
		return nil, fmt.Errorf("delay must not be negative: %d", action.DelaySeconds)
	}

	name, args, err := s.scheduleCommand(action)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("mode", action.Mode.String()).
		Int64("delay_seconds", action.DelaySeconds).
		Msg("scheduling power action")

	return s.run(ctx, name, args...)
}

// Cancel revokes a pending shutdown or restart.
func (s *Impl) Cancel(ctx context.Context) (*models.OperationResult, error) {
	var args []string
	switch s.cfg.Platform {
	case "windows":
		args = []string{"/a"}
	case "linux":
		args = []string{"-c"}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, s.cfg.Platform)
	}

	s.logger.Info().Msg("cancelling pending power action")

	return s.run(ctx, s.cfg.Command, args...)
}

func (s *Impl) run(ctx context.Context, name string, args ...string) (*models.OperationResult, error) {
	s.logger.Debug().Str("command", name).Strs("args", args).Msg("executing power command")

	result, err := s.executor.Execute(ctx, name, args...)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("exit_code", result.ExitCode).
		Str("message", result.Message).
		Msg("power command completed")

	return result, nil
}

func (s *Impl) scheduleCommand(action models.PowerAction) (string, []string, error) {
	switch s.cfg.Platform {
	case "windows":
		return s.cfg.Command, s.windowsArgs(action), nil
	case "linux":
		name, args := s.linuxCommand(action)
		return name, args, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, s.cfg.Platform)
	}
}

// windowsArgs builds shutdown.exe arguments; /t takes seconds.
func (s *Impl) windowsArgs(action models.PowerAction) []string {
	delay := strconv.FormatInt(action.DelaySeconds, 10)

	switch action.Mode {
	case models.ModeRestart:
		args := []string{"/r"}
		if s.cfg.ForceRestart {
			args = append(args, "/f")
		}
		return append(args, "/t", delay)
	case models.ModeRestartToFirmware:
		return []string{"/r", "/fw", "/t", "0"}
	default:
		return []string{"/s", "/t", delay}
	}
}

// linuxCommand builds the shutdown(8) invocation; the delay is in whole
// minutes, rounded up so the action never happens earlier than requested.
func (s *Impl) linuxCommand(action models.PowerAction) (string, []string) {
	if action.Mode == models.ModeRestartToFirmware {
		return s.cfg.FirmwareCommand, []string{"reboot", "--firmware-setup"}
	}

	when := "now"
	if action.DelaySeconds > 0 {
		minutes := (action.DelaySeconds + 59) / 60
		when = "+" + strconv.FormatInt(minutes, 10)
	}

	flag := "-h"
	if action.Mode == models.ModeRestart {
		flag = "-r"
	}

	return s.cfg.Command, []string{flag, when}
}
