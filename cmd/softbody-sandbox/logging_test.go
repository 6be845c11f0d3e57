package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/softsim/scene"
)

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "sandbox.log")
	sink := setupLogging(path, slog.LevelInfo)
	slog.Debug("hidden")
	slog.Info("visible", "key", "value")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
	assert.Contains(t, string(data), "key=value")
	assert.NotContains(t, string(data), "hidden")
}

func TestDefaultLogPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"XDG_DATA_HOME", "XDG_CACHE_HOME", "XDG_STATE_HOME", "XDG_CONFIG_HOME"} {
		t.Setenv(k, filepath.Join(home, k))
	}

	path := defaultLogPath()
	assert.Equal(t, logFileName, filepath.Base(path))
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLogLevelFlag(t *testing.T) {
	var f logLevelFlag
	require.NoError(t, f.Set("debug"))
	assert.Equal(t, slog.LevelDebug, f.value)
	assert.True(t, f.set)
	assert.Equal(t, "DEBUG", f.String())
	assert.Error(t, f.Set("chatty"))
}

func TestDefaultSceneLoads(t *testing.T) {
	f, err := loadScene("")
	require.NoError(t, err)
	_, ok := func() (scene.Entity, bool) {
		for _, e := range f.Entities {
			if e.Name == "jelly" {
				return e, true
			}
		}
		return scene.Entity{}, false
	}()
	assert.True(t, ok)
}
