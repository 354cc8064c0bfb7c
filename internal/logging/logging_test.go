package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"", zapcore.InfoLevel},
		{"info", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_WritesJSONToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Stderr: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.With("component", "fold").WithGroup("sensor").Info("angle changed", "angle", 92.5, "hall", 1, "err", errors.New("boom"))
	require.NoError(t, l.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "angle changed", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fold", entry["component"])
	sensor, ok := entry["sensor"].(map[string]any)
	require.True(t, ok, "expected sensor group, got %v", entry)
	assert.Equal(t, 92.5, sensor["angle"])
	assert.Equal(t, 1.0, sensor["hall"])
	assert.Equal(t, "boom", sensor["err"])
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "foldscreen.log")
	l, err := New(Config{Level: "debug", FilePath: path, Stderr: io.Discard})
	require.NoError(t, err)

	l.Debug("written to file", "display", uint64(3))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to file"`)
	assert.Contains(t, string(data), `"display":3`)
}

func TestNew_LevelGatesFileAndStderr(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "foldscreen.log")
	l, err := New(Config{Level: "warning", FilePath: path, Stderr: &buf})
	require.NoError(t, err)

	assert.False(t, l.Enabled(t.Context(), slog.LevelInfo))
	l.Info("dropped")
	l.Warn("kept", "reason", "invalid_posture")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for name, out := range map[string]string{"stderr": buf.String(), "file": string(data)} {
		assert.NotContains(t, out, "dropped", name)
		assert.Contains(t, out, `"reason":"invalid_posture"`, name)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud", Stderr: io.Discard})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.False(t, l.Enabled(t.Context(), 12))
	assert.NotPanics(t, func() { l.Error("nothing") })
}
