// Package console provides styled output and key/line input for the interactive session.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Style selects the color of a single write.
type Style int

// Styles.
const (
	StylePlain Style = iota
	StyleInfo
	StyleSuccess
	StyleWarning
	StyleError
	StyleHighlight
)

const (
	ansiReset       = "\x1b[0m"
	ansiClearScreen = "\x1b[H\x1b[2J"
	keyCtrlC        = 0x03
)

var styleCodes = map[Style]string{
	StyleInfo:      "\x1b[36m",
	StyleSuccess:   "\x1b[32m",
	StyleWarning:   "\x1b[33m",
	StyleError:     "\x1b[31m",
	StyleHighlight: "\x1b[96m",
}

// Display writes styled text. Each call resets its own style.
type Display interface {
	Write(style Style, text string)
	Writeln(style Style, text string)
	Clear()
}

// KeyReader reads a single key press.
type KeyReader interface {
	ReadKey() (models.Key, error)
}

// LineReader reads a line of text.
type LineReader interface {
	ReadLine() (string, error)
}

// Terminal implements Display, KeyReader and LineReader over a pair of streams.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	inFd  int
	raw   bool // stdin is a terminal, keys are read in raw mode
	color bool
	clear bool

	mu       sync.Mutex
	rawState *term.State // saved state while a key read holds raw mode
}

// New creates a terminal bound to the process's stdin and stdout.
func New(settings models.DisplaySettings) *Terminal {
	outTTY := isTerminal(os.Stdout)

	color := settings.Color == "always" || (settings.Color == "auto" && outTTY)

	return &Terminal{
		in:    bufio.NewReader(os.Stdin),
		out:   colorable.NewColorable(os.Stdout),
		inFd:  int(os.Stdin.Fd()),
		raw:   isTerminal(os.Stdin),
		color: color,
		clear: settings.ClearScreen && outTTY,
	}
}

// NewWithStreams creates a terminal over arbitrary streams (for testing).
// Keys are read one per line.
func NewWithStreams(in io.Reader, out io.Writer, color, clear bool) *Terminal {
	return &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		inFd:  -1,
		color: color,
		clear: clear,
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Write prints text in the given style without a trailing newline.
func (t *Terminal) Write(style Style, text string) {
	code, ok := styleCodes[style]
	if !t.color || !ok {
		_, _ = io.WriteString(t.out, text)
		return
	}
	_, _ = fmt.Fprint(t.out, code, text, ansiReset)
}

// Writeln prints text in the given style followed by a newline.
func (t *Terminal) Writeln(style Style, text string) {
	t.Write(style, text)
	_, _ = io.WriteString(t.out, "\n")
}

// Clear wipes the screen when clearing is enabled.
func (t *Terminal) Clear() {
	if t.clear {
		_, _ = io.WriteString(t.out, ansiClearScreen)
	}
}

// ReadKey blocks until a key is pressed.
func (t *Terminal) ReadKey() (models.Key, error) {
	if !t.raw {
		return t.readKeyLine()
	}

	state, err := term.MakeRaw(t.inFd)
	if err != nil {
		return models.KeyNone, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	t.mu.Lock()
	t.rawState = state
	t.mu.Unlock()
	defer t.Restore()

	r, _, err := t.in.ReadRune()
	if err != nil {
		return models.KeyNone, err
	}

	switch r {
	case keyCtrlC:
		return models.KeyEscape, nil
	case rune(models.KeyEscape):
		// A lone escape is the Escape key, anything buffered behind it is an
		// escape sequence (arrows, function keys) and is not a menu key.
		if t.in.Buffered() == 0 {
			return models.KeyEscape, nil
		}
		for t.in.Buffered() > 0 {
			_, _ = t.in.ReadByte()
		}
		return models.KeyNone, nil
	}

	return models.Key(r), nil
}

// Restore leaves raw mode if a key read is in progress. It is safe to call
// from another goroutine and when the terminal is not in raw mode.
func (t *Terminal) Restore() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rawState == nil {
		return
	}
	_ = term.Restore(t.inFd, t.rawState)
	t.rawState = nil
}

func (t *Terminal) readKeyLine() (models.Key, error) {
	line, err := t.ReadLine()
	if err != nil {
		return models.KeyNone, err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return models.KeyNone, nil
	}

	// A key line holds exactly one key.
	if utf8.RuneCountInString(line) != 1 {
		return models.KeyNone, nil
	}

	r, _ := utf8.DecodeRuneInString(line)
	return models.Key(r), nil
}

// ReadLine reads a line of text without its line terminator.
// A final line without terminator is returned before io.EOF.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
