package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Console: &buf})

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown")
	_ = log.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "run_id")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Console: &buf, Verbose: true})

	log.Debug("fetching source")
	_ = log.Sync()

	assert.Contains(t, buf.String(), "fetching source")
}

func TestNew_FileReceivesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wpstat.log")
	var console bytes.Buffer
	log := New(Options{Console: &console, File: path})

	log.Debug("file only")
	_ = log.Sync()

	assert.NotContains(t, console.String(), "file only")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "file only", entry["message"])
	assert.Equal(t, AppName, entry["app"])
	assert.NotEmpty(t, entry["run_id"])
}

func TestNew_RunIDsDiffer(t *testing.T) {
	var a, b bytes.Buffer
	New(Options{Console: &a}).Warn("x")
	New(Options{Console: &b}).Warn("x")
	assert.NotEqual(t, a.String(), b.String())
}
