// Package input validates menu keys and timer values typed by the user.
package input

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/fgeck/shutdown-timer/internal/services/console"
	"github.com/rs/zerolog"
)

// ErrInvalidMinutes is returned by ParseMinutes for any rejected value.
var ErrInvalidMinutes = errors.New("invalid minutes")

// maxMinutes keeps minutes*60 within int64.
const maxMinutes = math.MaxInt64 / 60

// Service defines the interface for validated user input.
type Service interface {
	ReadChoice(valid []models.Key, options []string) (models.Key, error)
	ReadNonNegativeInt(subject string) (int64, error)
}

// Terminal is the console surface the validator needs.
type Terminal interface {
	console.Display
	console.KeyReader
	console.LineReader
}

// Impl implements the input Service interface.
type Impl struct {
	term   Terminal
	logger zerolog.Logger
}

// New creates a new input validator.
func New(logger zerolog.Logger, term Terminal) *Impl {
	return &Impl{
		term:   term,
		logger: logger,
	}
}

// ReadChoice blocks until a key in valid is pressed. Every invalid key
// redisplays the options. It only fails when the input stream does.
func (s *Impl) ReadChoice(valid []models.Key, options []string) (models.Key, error) {
	for {
		key, err := s.term.ReadKey()
		if err != nil {
			return models.KeyNone, fmt.Errorf("failed to read key: %w", err)
		}

		if slices.Contains(valid, key) {
			s.logger.Debug().Str("key", key.String()).Msg("menu key accepted")
			return key, nil
		}

		s.logger.Debug().Str("key", key.String()).Msg("invalid menu key")

		s.term.Clear()
		s.term.Writeln(console.StyleWarning, "\n Please choose a valid option.")
		for _, option := range options {
			s.term.Writeln(console.StylePlain, option)
		}
	}
}

// ReadNonNegativeInt prompts for a timer in minutes until a value >= 0 is
// entered. Subject names the action in the prompt, e.g. "shutdown".
func (s *Impl) ReadNonNegativeInt(subject string) (int64, error) {
	s.term.Writeln(console.StyleInfo, fmt.Sprintf("\n How many minutes do you need before %s?", subject))
	s.term.Writeln(console.StyleInfo, fmt.Sprintf(" Enter 0 (zero) for immediate %s.", subject))
	s.term.Write(console.StylePlain, " Minutes: ")

	for {
		line, err := s.term.ReadLine()
		if err != nil {
			return 0, fmt.Errorf("failed to read minutes: %w", err)
		}

		minutes, err := ParseMinutes(line)
		if err == nil {
			return minutes, nil
		}

		s.logger.Debug().Err(err).Msg("timer input rejected")

		s.term.Clear()
		s.term.Writeln(console.StyleWarning, "\n Please enter a valid positive number or 0 (zero).")
		s.term.Writeln(console.StyleWarning, fmt.Sprintf(" Entering 0 will %s immediately.", subject))
		s.term.Write(console.StylePlain, " Minutes: ")
	}
}

// ParseMinutes parses a timer value. Non-numeric, negative and overflowing
// values all fail with ErrInvalidMinutes.
func ParseMinutes(text string) (int64, error) {
	text = strings.TrimSpace(text)

	minutes, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidMinutes, text)
	}
	if minutes < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidMinutes, minutes)
	}
	if minutes > maxMinutes {
		return 0, fmt.Errorf("%w: %d is too large", ErrInvalidMinutes, minutes)
	}

	return minutes, nil
}
