// Package report classifies power tool results and tells the user what happened.
package report

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/fgeck/shutdown-timer/internal/services/console"
	"github.com/rs/zerolog"
)

// Classify maps a tool result to an outcome. Known exit codes win over
// message matching. A nil result is unexpected.
func Classify(result *models.OperationResult, patterns models.MessagePatterns) models.Outcome {
	if result == nil {
		return models.OutcomeUnexpected
	}

	switch {
	case matches(result, patterns.BenignExitCodes, patterns.BenignMessages):
		return models.OutcomeNothingScheduled
	case matches(result, patterns.PrivilegeExitCodes, patterns.PrivilegeMessages):
		return models.OutcomePrivilegeRequired
	case result.ExitCode == 0 && strings.TrimSpace(result.Message) == "":
		return models.OutcomeSuccess
	default:
		return models.OutcomeUnexpected
	}
}

func matches(result *models.OperationResult, codes []int, substrings []string) bool {
	if result.ExitCode != 0 && slices.Contains(codes, result.ExitCode) {
		return true
	}

	message := strings.ToLower(result.Message)
	for _, s := range substrings {
		if s != "" && strings.Contains(message, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// FormatTimer renders a delay in minutes as "N minute(s)" below an hour and
// "H hour(s) and M minute(s)" otherwise.
func FormatTimer(minutes int64) string {
	if minutes < 60 {
		return fmt.Sprintf("%d minute(s)", minutes)
	}
	return fmt.Sprintf("%d hour(s) and %d minute(s)", minutes/60, minutes%60)
}

// Reporter prints operation outcomes.
type Reporter struct {
	display  console.Display
	patterns models.MessagePatterns
	logger   zerolog.Logger
}

// New creates a new reporter.
func New(logger zerolog.Logger, display console.Display, patterns models.MessagePatterns) *Reporter {
	return &Reporter{
		display:  display,
		patterns: patterns,
		logger:   logger,
	}
}

// CancelStarted announces the cancel step. Subject is "shutdown", "restart"
// or "shutdown/restart" when the user cancels directly.
func (r *Reporter) CancelStarted(subject string) {
	r.display.Writeln(console.StylePlain, fmt.Sprintf("\n Checking if there is already a %s scheduled...", subject))
	r.display.Writeln(console.StylePlain, " If there is, it will be cancelled!")
	r.display.Writeln(console.StylePlain, fmt.Sprintf(" Cancelling %s...", subject))
}

// Cancelled reports the result of a cancel and returns its classification.
func (r *Reporter) Cancelled(subject string, result *models.OperationResult) models.Outcome {
	outcome := Classify(result, r.patterns)
	r.logOutcome("cancel", outcome, result)

	switch outcome {
	case models.OutcomeNothingScheduled:
		r.display.Writeln(console.StyleWarning, " Warning: "+result.Message)
		r.display.Writeln(console.StyleWarning, fmt.Sprintf(" There was no scheduled %s to cancel.", subject))
	case models.OutcomeSuccess:
		r.display.Writeln(console.StyleSuccess, fmt.Sprintf(" %s cancellation completed successfully.", capitalize(subject)))
	default:
		r.unexpected("cancel", subject, result)
	}

	return outcome
}

// Scheduled reports the result of a schedule and returns its classification.
// A failed firmware restart from a process that is not elevated counts as a
// privilege failure even when the tool's message is not recognized.
func (r *Reporter) Scheduled(action models.PowerAction, minutes int64, result *models.OperationResult, elevated bool) models.Outcome {
	subject := Subject(action.Mode)
	outcome := Classify(result, r.patterns)
	if outcome == models.OutcomeUnexpected && action.Mode == models.ModeRestartToFirmware &&
		!elevated && result != nil && result.ExitCode != 0 {
		outcome = models.OutcomePrivilegeRequired
	}
	r.logOutcome("schedule", outcome, result)

	switch outcome {
	case models.OutcomeSuccess:
		r.display.Writeln(console.StyleSuccess, fmt.Sprintf("\n %s scheduling completed.", capitalize(subject)))
		r.display.Writeln(console.StyleSuccess, fmt.Sprintf(" Computer will %s in %s.", subject, FormatTimer(minutes)))
		switch action.Mode {
		case models.ModeRestartToFirmware:
			r.display.Writeln(console.StyleSuccess, " Computer will restart and go to BIOS.")
		case models.ModeRestart:
			r.display.Writeln(console.StyleSuccess, " Computer will restart normally.")
		}
	case models.OutcomePrivilegeRequired:
		r.display.Writeln(console.StyleError, " Warning: "+result.Message)
		r.display.Writeln(console.StyleError, fmt.Sprintf(" %s scheduling failed.", capitalize(subject)))
		r.display.Write(console.StyleWarning, " If you are trying to restart to BIOS, please make sure to launch the program with")
		r.display.Write(console.StyleHighlight, " `Run as administrator'")
		r.display.Writeln(console.StyleWarning, " option")
	default:
		r.unexpected("schedule", subject, result)
	}

	return outcome
}

// Failure reports an error that kept an operation from running at all.
func (r *Reporter) Failure(err error) {
	r.logger.Error().Err(err).Msg("operation failed")
	r.display.Writeln(console.StyleError, " Error: "+err.Error())
}

func (r *Reporter) unexpected(verb, subject string, result *models.OperationResult) {
	r.display.Writeln(console.StyleError, fmt.Sprintf(" Warning: An unexpected error occurred while trying to %s the %s.", verb, subject))
	if result == nil {
		return
	}
	r.display.Writeln(console.StyleError, fmt.Sprintf(" Process exit code: %d", result.ExitCode))
	r.display.Writeln(console.StyleError, " Error output: "+result.Message)
}

func (r *Reporter) logOutcome(op string, outcome models.Outcome, result *models.OperationResult) {
	event := r.logger.Info()
	if outcome == models.OutcomeUnexpected || outcome == models.OutcomePrivilegeRequired {
		event = r.logger.Warn()
	}
	if result != nil {
		event = event.Int("exit_code", result.ExitCode).Str("message", result.Message)
	}
	event.Str("operation", op).Str("outcome", outcome.String()).Msg("power command classified")
}

// Subject names a power mode in user-facing text.
func Subject(mode models.PowerMode) string {
	if mode == models.ModeShutdown {
		return "shutdown"
	}
	return "restart"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
