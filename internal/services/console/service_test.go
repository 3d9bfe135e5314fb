package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_NoColor(t *testing.T) {
	var out bytes.Buffer
	tm := NewWithStreams(strings.NewReader(""), &out, false, false)

	tm.Write(StyleError, "boom")
	tm.Writeln(StyleSuccess, " done")

	assert.Equal(t, "boom done\n", out.String())
}

func TestWrite_ColorResetsEveryCall(t *testing.T) {
	var out bytes.Buffer
	tm := NewWithStreams(strings.NewReader(""), &out, true, false)

	tm.Write(StyleWarning, "careful")
	tm.Write(StylePlain, "plain")

	assert.Equal(t, "\x1b[33mcareful\x1b[0mplain", out.String())
}

func TestWriteln_ColorNewlineOutsideStyle(t *testing.T) {
	var out bytes.Buffer
	tm := NewWithStreams(strings.NewReader(""), &out, true, false)

	tm.Writeln(StyleInfo, "menu")

	assert.Equal(t, "\x1b[36mmenu\x1b[0m\n", out.String())
}

func TestClear(t *testing.T) {
	var out bytes.Buffer

	NewWithStreams(strings.NewReader(""), &out, false, false).Clear()
	assert.Empty(t, out.String())

	NewWithStreams(strings.NewReader(""), &out, false, true).Clear()
	assert.Equal(t, ansiClearScreen, out.String())
}

func TestReadKey_LineMode(t *testing.T) {
	tm := NewWithStreams(strings.NewReader("1\n  3 \n\n\x1b\n"), io.Discard, false, false)

	key, err := tm.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, models.Key('1'), key)

	key, err = tm.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, models.Key('3'), key)

	key, err = tm.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, models.KeyNone, key)

	key, err = tm.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, models.KeyEscape, key)

	_, err = tm.ReadKey()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLine(t *testing.T) {
	tm := NewWithStreams(strings.NewReader("90\r\nabc\nlast"), io.Discard, false, false)

	line, err := tm.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "90", line)

	line, err = tm.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "abc", line)

	line, err = tm.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = tm.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadKeyThenLine_SharedBuffer(t *testing.T) {
	tm := NewWithStreams(strings.NewReader("1\n45\n"), io.Discard, false, false)

	key, err := tm.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, models.Key('1'), key)

	line, err := tm.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "45", line)
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "esc", models.KeyEscape.String())
	assert.Equal(t, "none", models.KeyNone.String())
	assert.Equal(t, "4", models.Key('4').String())
}

func TestReadKey_LineMode_RejectsMultiKeyLines(t *testing.T) {
	tm := NewWithStreams(strings.NewReader("12\n5abc\n 5 \n"), io.Discard, false, false)

	key, err := tm.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, models.KeyNone, key)

	key, err = tm.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, models.KeyNone, key)

	key, err = tm.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, models.Key('5'), key)
}

func TestRestore_NotInRawMode(t *testing.T) {
	tm := NewWithStreams(strings.NewReader(""), io.Discard, false, false)

	assert.NotPanics(t, func() {
		tm.Restore()
		tm.Restore()
	})
}
