package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", ConfigFilename), "1.2.0", nil)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t)
	cfg := s.Load()
	assert.Equal(t, Defaults("1.2.0"), cfg)
	assert.True(t, cfg.Preferences.Use2x)
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	assert.Equal(t, Defaults("1.2.0"), s.Load())
}

func TestLoadBackfillsMissingFields(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	old := `{"install_folder": "/games/osu", "active_skin": "Blue"}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(old), 0o644))

	cfg := s.Load()
	assert.Equal(t, "/games/osu", cfg.InstallFolder)
	assert.Equal(t, "Blue", cfg.ActiveSkin)
	assert.True(t, cfg.Preferences.Use2x, "preferences missing from the file keep their default")
	assert.False(t, cfg.UpdatePreferences.IgnoreUpdates)
}

func TestSaveCreatesDirectoryAndRoundTrips(t *testing.T) {
	s := newTestStore(t)
	cfg := Defaults("")
	cfg.InstallFolder = "/games/osu"
	cfg.LazerMode = true
	cfg.LazerSkinPath = "/tmp/lazer-skin"
	require.NoError(t, s.Save(cfg))

	got := s.Load()
	assert.Equal(t, "/games/osu", got.InstallFolder)
	assert.True(t, got.LazerMode)
	assert.Equal(t, "/tmp/lazer-skin", got.LazerSkinPath)
	assert.Equal(t, "1.2.0", got.AppVersion)

	_, err := os.Stat(s.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestSettersPersistImmediately(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SetInstallFolder("/games/osu")
	require.NoError(t, err)
	_, err = s.SetActiveSkin("Blue")
	require.NoError(t, err)
	_, err = s.SetIgnoreUpdates(true)
	require.NoError(t, err)
	_, err = s.SetUse2x(false)
	require.NoError(t, err)

	fresh := NewStore(s.Path(), "1.2.0", nil)
	cfg := fresh.Load()
	assert.Equal(t, "/games/osu", cfg.InstallFolder)
	assert.Equal(t, "Blue", cfg.ActiveSkin)
	assert.True(t, cfg.UpdatePreferences.IgnoreUpdates)
	assert.False(t, cfg.Preferences.Use2x)
}

func TestOnSkinChangeFiresOnlyWhenResolvedSkinChanges(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	s.OnSkinChange(func(Config) { calls++ })

	_, err := s.SetActiveSkin("Blue")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = s.SetActiveSkin("Blue")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "same value does not fire")

	_, err = s.SetIgnoreUpdates(true)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "unrelated fields do not fire")

	_, err = s.SetLazerSkinPath("/tmp/lazer")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "lazer path is inactive while lazer mode is off")

	_, err = s.SetLazerMode(true)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	_, err = s.SetLazerSkinPath("/tmp/other")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPathsAtLayout(t *testing.T) {
	p := PathsAt("/data")
	assert.Equal(t, filepath.Join("/data", "config.json"), p.ConfigFile)
	assert.Equal(t, filepath.Join("/data", "presets", "cursor-trails"), p.CursorTrailsDir)
	assert.Equal(t, filepath.Join("/data", "cache", "hitsounds"), p.HitsoundsCacheDir)
}

func TestResolvePathsHonoursHomeEnv(t *testing.T) {
	root := filepath.Join(t.TempDir(), "home")
	t.Setenv(HomeEnv, root)

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, root, p.Root)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
