package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with fresh output buffers and a private
// database and log file.
func execute(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ACUITY_LADDER", "")
	t.Setenv("ACUITY_ANSWERS", "")

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	full := append(args,
		"--db", filepath.Join(dir, "acuity.db"),
		"--log", filepath.Join(dir, "acuity.log"),
	)
	rootCmd.SetArgs(full)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLadderCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "ladder")
	require.NoError(t, err)
	assert.Contains(t, out, "answers: directions")
	assert.Contains(t, out, "RANK")
	assert.Regexp(t, `10\s+0\.4\s+50\s+start`, out)
}

func TestRecordAndHistory(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "", "record", "--name", "Ana", "--level", "0.8")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded Ana at level 0.8.")

	out, err = execute(t, dir, "", "history", "--name", "", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "manual")
}

func TestRecordRejectsUnknownLevel(t *testing.T) {
	_, err := execute(t, t.TempDir(), "", "record", "--name", "Ana", "--level", "9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a level on the chart")
}

func TestRunConsole(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "?\n?\n", "run", "--name", "Bo")
	require.NoError(t, err)
	assert.Contains(t, out, "Cover one eye, Bo.")
	assert.Contains(t, out, "<0.03")

	out, err = execute(t, dir, "", "history", "--name", "Bo", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "mistake limit")
}

func TestRunConsolePromptsForName(t *testing.T) {
	out, err := execute(t, t.TempDir(), "Cy\nq\n", "run", "--name", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: ")
	assert.Contains(t, out, "Cover one eye, Cy.")
}

func TestHistoryEmpty(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "history", "--name", "", "--limit", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "No results yet.")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "acuity (devel)")
}

func TestUpdateRefusesDevBuild(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "update")
	require.NoError(t, err)
	assert.Contains(t, out, "Cannot update a development build")
}

func TestVersionVerbosePrintsRuntime(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "version", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "acuity (devel)")
	assert.Contains(t, out, "go go1.")
}
