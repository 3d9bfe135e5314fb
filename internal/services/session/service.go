// Package session runs the interactive shutdown/restart menu.
package session

import (
	"context"
	"fmt"

	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/fgeck/shutdown-timer/internal/services/console"
	"github.com/fgeck/shutdown-timer/internal/services/input"
	"github.com/fgeck/shutdown-timer/internal/services/power"
	"github.com/fgeck/shutdown-timer/internal/services/report"
	"github.com/rs/zerolog"
)

// cancelSubject is used when the user cancels directly and the pending
// action may be either kind.
const cancelSubject = "shutdown/restart"

var menuKeys = []models.Key{'1', '2', '3', '4', '5', models.KeyEscape}

var menuOptions = []string{
	" 1 - Schedule shutdown",
	" 2 - Cancel shutdown",
	" 3 - Schedule restart",
	" 4 - Restart now, and go to BIOS (Requires 'Run as administrator')",
	" 5 - Exit (ESC works, too!)",
}

// Service defines the interface for the interactive session.
type Service interface {
	Run(ctx context.Context) error
}

// Terminal is the console surface the session writes to and pauses on.
type Terminal interface {
	console.Display
	console.KeyReader
}

// Impl implements the session Service interface.
type Impl struct {
	powerSvc power.Service
	inputSvc input.Service
	term     Terminal
	reporter *report.Reporter
	settings models.DisplaySettings
	elevated func() bool
	logger   zerolog.Logger
	state    models.SessionState
}

// New creates a new session bound to the real power tool and terminal.
func New(logger zerolog.Logger, cfg models.AppConfig, term *console.Terminal) *Impl {
	return NewWithServices(
		logger,
		cfg,
		power.New(logger, cfg.Power),
		input.New(logger, term),
		term,
	)
}

// NewWithServices creates a new session with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	cfg models.AppConfig,
	powerSvc power.Service,
	inputSvc input.Service,
	term Terminal,
) *Impl {
	return &Impl{
		powerSvc: powerSvc,
		inputSvc: inputSvc,
		term:     term,
		reporter: report.New(logger, term, cfg.Power.Patterns),
		settings: cfg.Display,
		elevated: power.IsElevated,
		logger:   logger,
		state:    models.StateMenuDisplayed,
	}
}

// State returns the current session state.
func (s *Impl) State() models.SessionState {
	return s.state
}

// Run shows the menu, executes the chosen action and waits for a final key
// press. Action failures are reported to the user, never returned.
func (s *Impl) Run(ctx context.Context) error {
	s.state = models.StateMenuDisplayed
	s.showMenu()

	inputClosed := false
	option := models.OptionExit

	key, err := s.inputSvc.ReadChoice(menuKeys, menuOptions)
	if err != nil {
		s.logger.Warn().Err(err).Msg("input closed, exiting")
		inputClosed = true
	} else {
		option = models.OptionForKey(key)
	}

	s.term.Clear()

	s.state = models.StateActionExecuting
	s.logger.Debug().Str("option", option.String()).Msg("executing menu option")
	s.execute(ctx, option)
	s.state = models.StateDone

	if inputClosed || (option == models.OptionExit && !s.settings.PauseOnExit) {
		return nil
	}

	s.term.Write(console.StylePlain, "\n Press any key to exit...")
	if _, err := s.term.ReadKey(); err != nil {
		s.logger.Debug().Err(err).Msg("no key read before exit")
	}
	s.term.Clear()

	return nil
}

func (s *Impl) showMenu() {
	s.term.Writeln(console.StylePlain, fmt.Sprintf("\n Note: Trying to schedule a new %s (options 1, 3, and 4) ", cancelSubject))
	s.term.Writeln(console.StylePlain, fmt.Sprintf(" will cancel the existing %s first, if there is one", cancelSubject))
	s.term.Writeln(console.StyleInfo, " Choose the operation you want to do:")
	for _, option := range menuOptions {
		s.term.Writeln(console.StylePlain, option)
	}
}

// execute runs one menu option. Panics are recovered here so a failing
// action still ends the session normally.
func (s *Impl) execute(ctx context.Context, option models.MenuOption) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Interface("panic", r).
				Str("option", option.String()).
				Msg("action aborted")
			s.reporter.Failure(fmt.Errorf("%v", r))
		}
	}()

	var err error
	switch option {
	case models.OptionScheduleShutdown:
		err = s.schedule(ctx, models.ModeShutdown)
	case models.OptionCancelShutdown:
		s.cancel(ctx, cancelSubject)
	case models.OptionScheduleRestart:
		err = s.schedule(ctx, models.ModeRestart)
	case models.OptionRestartToFirmware:
		err = s.schedule(ctx, models.ModeRestartToFirmware)
	case models.OptionExit:
		s.logger.Debug().Msg("exit selected")
	}

	if err != nil {
		s.reporter.Failure(err)
	}
}

// cancel revokes any pending action. Failures are reported and never stop
// a following schedule.
func (s *Impl) cancel(ctx context.Context, subject string) {
	s.reporter.CancelStarted(subject)

	result, err := s.powerSvc.Cancel(ctx)
	if err != nil {
		s.reporter.Failure(fmt.Errorf("failed to cancel %s: %w", subject, err))
		return
	}

	s.reporter.Cancelled(subject, result)
}

func (s *Impl) schedule(ctx context.Context, mode models.PowerMode) error {
	subject := report.Subject(mode)

	s.cancel(ctx, subject)

	var minutes int64
	if mode != models.ModeRestartToFirmware {
		var err error
		minutes, err = s.inputSvc.ReadNonNegativeInt(subject)
		if err != nil {
			return fmt.Errorf("failed to read %s timer: %w", subject, err)
		}
	}

	elevated := s.elevated()
	if mode == models.ModeRestartToFirmware && !elevated {
		s.logger.Warn().Msg("firmware restart requested without elevated privileges")
	}

	if mode != models.ModeShutdown {
		s.term.Writeln(console.StylePlain, "\n Scheduling a restart...")
	}

	action := models.NewPowerAction(mode, minutes)
	result, err := s.powerSvc.Schedule(ctx, action)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", subject, err)
	}

	s.reporter.Scheduled(action, minutes, result, elevated)
	return nil
}
