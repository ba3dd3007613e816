package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		out = append(out, entry)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acuity.log")
	logger, closeFn, err := New(path, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("session started")
	closeFn()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "session started", entries[0]["msg"])
	assert.Equal(t, "info", entries[0]["level"])
}

func TestNewVerboseKeepsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acuity.log")
	logger, closeFn, err := New(path, true)
	require.NoError(t, err)

	logger.Debug("trial submitted")
	closeFn()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "debug", entries[0]["level"])
}

func TestNewEmptyPathIsNop(t *testing.T) {
	logger, closeFn, err := New("", true)
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("dropped")
	closeFn()
}

func TestVerboseFromEnv(t *testing.T) {
	tests := map[string]bool{"": false, "1": true, "true": true, "no": false, "0": false}
	for v, want := range tests {
		t.Setenv("ACUITY_DEBUG", v)
		assert.Equal(t, want, VerboseFromEnv(), "ACUITY_DEBUG=%q", v)
	}
}
