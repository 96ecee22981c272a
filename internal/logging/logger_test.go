package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, dir string) []map[string]any {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger_CreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	l, err := NewLogger(dir, LevelInfo)
	require.NoError(t, err)
	defer l.Close()

	_, err = os.Stat(filepath.Join(dir, FileName))
	assert.NoError(t, err)
}

func TestNewLogger_Stderr(t *testing.T) {
	l, err := NewLogger("", LevelInfo)
	require.NoError(t, err)
	assert.Nil(t, l.out.file)
	assert.NoError(t, l.Close())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{level: LevelDebug, want: []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{level: "info", want: []string{"INFO", "WARN", "ERROR"}},
		{level: LevelWarn, want: []string{"WARN", "ERROR"}},
		{level: LevelError, want: []string{"ERROR"}},
		{level: "bogus", want: []string{"INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			dir := t.TempDir()
			l, err := NewLogger(dir, tt.level)
			require.NoError(t, err)

			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")
			require.NoError(t, l.Close())

			var got []string
			for _, e := range readEntries(t, dir) {
				got = append(got, e["level"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWith(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, LevelDebug)
	require.NoError(t, err)

	child := l.WithComponent("brew").With("package", "wget")
	child.Info("uninstalled", "duration_ms", 120)
	l.Info("plain")
	assert.Same(t, l, l.With())
	require.NoError(t, child.Close())

	entries := readEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "uninstalled", entries[0]["msg"])
	assert.Equal(t, "brew", entries[0]["component"])
	assert.Equal(t, "wget", entries[0]["package"])
	assert.Equal(t, float64(120), entries[0]["duration_ms"])
	assert.NotContains(t, entries[1], "component")
}

func TestCloseTwice(t *testing.T) {
	l, err := NewLogger(t.TempDir(), LevelInfo)
	require.NoError(t, err)
	require.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	assert.NotPanics(t, func() {
		l.With("k", "v").Error("dropped")
	})
	assert.NoError(t, l.Close())
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("debug"))
	assert.True(t, ValidLevel("ERROR"))
	assert.False(t, ValidLevel("trace"))
}
