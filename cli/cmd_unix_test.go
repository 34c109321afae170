//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunCommand(t *testing.T) {
	requireShell(t)
	record := filepath.Join(t.TempDir(), "run.raw")

	out, err := executeCommand(t, "run", "--cols", "20", "--rows", "3", "--record", record,
		"--", "sh", "-c", `printf 'one\ntwo\n\033[1mthree'`)
	if err != nil && strings.Contains(err.Error(), "failed to start") {
		t.Skipf("no pseudo-terminal available: %v", err)
	}
	require.NoError(t, err)
	assert.Equal(t, "one\r\ntwo\r\nthree\r\n", out)

	raw, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\x1b[1mthree")

	replayed, err := executeCommand(t, "replay", "--plain", record)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree", replayed)
}

func TestRunCommandFailure(t *testing.T) {
	requireShell(t)
	_, err := executeCommand(t, "run", "--", "sh", "-c", "exit 3")
	if err != nil && strings.Contains(err.Error(), "failed to start") {
		t.Skipf("no pseudo-terminal available: %v", err)
	}
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestCaptureCommand(t *testing.T) {
	requireShell(t)
	out, err := executeCommand(t, "capture", "--plain", "--", "sh", "-c", "echo to-out; echo to-err >&2")
	require.NoError(t, err)

	assert.Contains(t, out, "== stdout (7 B captured) ==\nto-out\n")
	assert.Contains(t, out, "== stderr (7 B captured) ==\nto-err\n")
}
