package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomo/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvFocus, config.EnvBreak, config.EnvStore} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestNew_ExplicitDir(t *testing.T) {
	cfg, err := config.New("/tmp/pomo-test")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pomo-test", cfg.Dir)
	assert.Equal(t, config.DefaultSettings(), cfg.Settings)
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "pomo"), config.DefaultConfigDir())
}

func TestDefaultConfigDir_Home(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	assert.Equal(t, filepath.Join("/home/someone", ".config", "pomo"), config.DefaultConfigDir())
}

func TestDefaultSettings(t *testing.T) {
	s := config.DefaultSettings()
	assert.Equal(t, 25*time.Minute, s.Timer.Focus)
	assert.Equal(t, 5*time.Minute, s.Timer.Break)
	assert.True(t, s.Timer.RequireAck)
	assert.True(t, s.Timer.RequireTask)
	assert.Equal(t, 8, s.Stats.DailyGoal)
	assert.NoError(t, s.Validate())
}

func TestLoad_MissingFilesKeepDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.Load())
	assert.Equal(t, config.DefaultSettings(), cfg.Settings)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ConfigFile), `
timer:
  focus: 50m
  break: 10m
  require_ack: false
stats:
  daily_goal: 4
store:
  path: data/pomo.db
`)
	cfg, err := config.New(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Load())

	assert.Equal(t, 50*time.Minute, cfg.Timer.Focus)
	assert.Equal(t, 10*time.Minute, cfg.Timer.Break)
	assert.False(t, cfg.Timer.RequireAck)
	assert.True(t, cfg.Timer.RequireTask, "unset keys keep their defaults")
	assert.Equal(t, 4, cfg.Stats.DailyGoal)
	assert.Equal(t, filepath.Join(dir, "data", "pomo.db"), cfg.StorePath())
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ConfigFile), "timer: [\n")
	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.Load(), config.ErrInvalid)
}

func TestLoad_OutOfRange(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ConfigFile), "stats:\n  daily_goal: 0\n")
	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.Load(), config.ErrInvalid)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ConfigFile), "timer:\n  focus: 50m\n")
	writeFile(t, filepath.Join(dir, config.EnvFile), "POMO_FOCUS=15m\nPOMO_BREAK=3m\n")
	t.Setenv(config.EnvBreak, "2m")
	t.Setenv(config.EnvStore, config.MemoryStore)

	cfg, err := config.New(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Load())

	assert.Equal(t, 15*time.Minute, cfg.Timer.Focus, "dotenv beats the file")
	assert.Equal(t, 2*time.Minute, cfg.Timer.Break, "process env beats dotenv")
	assert.Equal(t, config.MemoryStore, cfg.StorePath())
}

func TestLoad_BadEnvDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvFocus, "soon")
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.Load(), config.ErrInvalid)
}

func TestStorePath(t *testing.T) {
	cfg, err := config.New("/cfg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cfg", config.StoreFile), cfg.StorePath())

	cfg.Store.Path = "/var/lib/pomo.db"
	assert.Equal(t, "/var/lib/pomo.db", cfg.StorePath())
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "pomo")
	cfg, err := config.New(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.EnsureDir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFile)
	writeFile(t, path, "timer:\n  focus: 25m\n")

	var mu sync.Mutex
	var got []config.Settings
	w, err := config.NewWatcher(path, 10*time.Millisecond, func(s config.Settings) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context()))
	t.Cleanup(func() { _ = w.Stop() })

	// Invalid content is skipped.
	writeFile(t, path, "timer:\n  focus: 0s\n")
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "timer:\n  focus: 40m\n  break: 8m\n")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Timer.Focus == 40*time.Minute
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, s := range got {
		assert.GreaterOrEqual(t, s.Timer.Focus, time.Second)
	}
	assert.Equal(t, 8*time.Minute, got[len(got)-1].Timer.Break)
}

func TestWatcher_ReloadKeepsEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvFocus, "10m")
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFile)
	writeFile(t, path, "timer:\n  focus: 25m\n")
	writeFile(t, filepath.Join(dir, config.EnvFile), "POMO_BREAK=4m\n")

	var mu sync.Mutex
	var got []config.Settings
	w, err := config.NewWatcher(path, 10*time.Millisecond, func(s config.Settings) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context()))
	t.Cleanup(func() { _ = w.Stop() })

	writeFile(t, path, "stats:\n  daily_goal: 6\n")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Stats.DailyGoal == 6
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	last := got[len(got)-1]
	assert.Equal(t, 10*time.Minute, last.Timer.Focus, "process env survives reload")
	assert.Equal(t, 4*time.Minute, last.Timer.Break, "dotenv survives reload")
}

func TestLoadSettings_EmptyEnvFallsBackToDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.EnvFile), "POMO_FOCUS=12m\n")

	s, err := config.LoadSettings(filepath.Join(dir, config.ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, 12*time.Minute, s.Timer.Focus)
	assert.Equal(t, 5*time.Minute, s.Timer.Break)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := config.NewWatcher(filepath.Join(t.TempDir(), config.ConfigFile), 0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context()))
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
