package skin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
)

func TestResolvePathStable(t *testing.T) {
	cfg := config.Config{InstallFolder: "/games/osu", ActiveSkin: "Blue"}
	path, err := ResolvePath(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/games/osu", "Skins", "Blue"), path)
}

func TestResolvePathLazerIgnoresInstallFolder(t *testing.T) {
	cfg := config.Config{InstallFolder: "/games/osu", ActiveSkin: "Blue", LazerMode: true, LazerSkinPath: "/tmp/lazer"}
	path, err := ResolvePath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lazer", path)
}

func TestResolvePathNotConfigured(t *testing.T) {
	cases := map[string]config.Config{
		"no install folder": {ActiveSkin: "Blue"},
		"no skin":           {InstallFolder: "/games/osu"},
		"lazer no path":     {InstallFolder: "/games/osu", ActiveSkin: "Blue", LazerMode: true},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ResolvePath(cfg)
			assert.True(t, apperr.Is(err, apperr.KindNotConfigured), "got %v", err)
		})
	}
}

func TestResolvePathDoesNotCheckExistence(t *testing.T) {
	_, err := ResolvePath(config.Config{InstallFolder: "/does/not/exist", ActiveSkin: "x"})
	assert.NoError(t, err)
}

func TestResolveExisting(t *testing.T) {
	root := t.TempDir()
	cfg := config.Config{InstallFolder: root, ActiveSkin: "Blue"}

	_, err := ResolveExisting(cfg)
	assert.True(t, apperr.Is(err, apperr.KindSkinFolderNotFound))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "Skins", "Blue"), 0o755))
	path, err := ResolveExisting(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Skins", "Blue"), path)
}

func TestList(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "Alpha", "beta", ".hidden"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "Skins", name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "Skins", "readme.txt"), nil, 0o644))

	names, err := List(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names)
}

func TestListMissingSkinsDir(t *testing.T) {
	_, err := List(t.TempDir())
	assert.True(t, apperr.Is(err, apperr.KindSkinFolderNotFound))
}

func TestSuggest(t *testing.T) {
	candidates := []string{"Blue Circles", "Rafis", "- Whitecat -", "Blue Circle v2"}
	got := Suggest("blue circels", candidates, 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "Blue Circles", got[0])

	assert.Empty(t, Suggest("completely different", []string{"ab"}, 3))
}
