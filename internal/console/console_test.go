//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package console

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodjjo/diffusion-expert-sub000/internal/config"
	"github.com/rodjjo/diffusion-expert-sub000/internal/logging"
)

func tempStream(t *testing.T, name string, enabled bool) stream {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return stream{name: name, file: f, enabled: enabled}
}

func TestConsoleCapturesStreams(t *testing.T) {
	out := tempStream(t, StdoutName, true)
	errStream := tempStream(t, StderrName, true)

	c := open(context.Background(), config.Default(), logging.NopLogger(), []stream{out, errStream})
	require.Len(t, c.Channels(), 2)
	assert.True(t, c.Stdout().Captured())
	assert.True(t, c.Stderr().Captured())

	_, err := out.file.Write([]byte("\x1b[32mready\x1b[0m\n"))
	require.NoError(t, err)
	_, err = errStream.file.Write([]byte("warning: slow\n"))
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.False(t, c.Stdout().Captured())

	assert.Equal(t, "ready\n", c.Stdout().Terminal.FlattenToText())
	assert.Equal(t, "warning: slow\n", c.Stderr().Terminal.FlattenToText())

	frame := c.Stdout().Terminal.ExportVisibleRows()
	require.NotEmpty(t, frame.Rows[0])
	assert.Equal(t, uint8(2), frame.Rows[0][0].Fg)
}

func TestConsoleDisabledStream(t *testing.T) {
	out := tempStream(t, StdoutName, true)
	errStream := tempStream(t, StderrName, false)

	c := open(context.Background(), config.Default(), nil, []stream{out, errStream})
	defer c.Close()

	assert.True(t, c.Stdout().Captured())
	assert.Nil(t, c.Stderr().Capture)
	assert.NotNil(t, c.Stderr().Terminal)
}

func TestConsoleCaptureFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(dir, logging.LevelInfo)
	require.NoError(t, err)

	broken := tempStream(t, StdoutName, true)
	require.NoError(t, broken.file.Close())

	c := open(context.Background(), config.Default(), logger, []stream{broken})
	assert.Nil(t, c.Stdout().Capture)
	assert.False(t, c.Stdout().Captured())
	assert.Empty(t, c.Stdout().Terminal.FlattenToText())
	assert.NoError(t, c.Close())
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, logging.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "stream capture failed")
	assert.Contains(t, string(data), `"channel":"stdout"`)
}
