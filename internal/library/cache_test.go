package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
)

func TestCacheInvalidationContract(t *testing.T) {
	d := NewDigits(testPaths(t), nopLog())
	c := d.Cache()
	skin := t.TempDir()
	writeFile(t, filepath.Join(skin, "default-1.png"), makePNG(t, 3, 3))

	assert.False(t, c.HasCache())
	slots, err := c.Read(skin)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.True(t, c.HasCache())

	// The live folder changes; the cache keeps serving the old copy.
	writeFile(t, filepath.Join(skin, "default-2.png"), makePNG(t, 3, 3))
	slots, err = c.Read(skin)
	require.NoError(t, err)
	assert.Len(t, slots, 1)

	require.NoError(t, c.Invalidate())
	assert.False(t, c.HasCache())
	_, err = os.Stat(c.Dir())
	assert.NoError(t, err, "invalidate leaves an empty directory")

	slots, err = c.Read(skin)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestCacheRefreshMissingSkin(t *testing.T) {
	h := NewHitsounds(testPaths(t), nopLog())
	err := h.Cache().Refresh(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, apperr.Is(err, apperr.KindSkinFolderNotFound))
}

func TestCachePrefersEarlierExtension(t *testing.T) {
	h := NewHitsounds(testPaths(t), nopLog())
	skin := t.TempDir()
	writeFile(t, filepath.Join(skin, "normal-hitclap.ogg"), []byte("ogg"))
	writeFile(t, filepath.Join(skin, "Normal-HitClap.WAV"), []byte("wav"))
	writeFile(t, filepath.Join(skin, "readme.txt"), []byte("x"))

	slots, err := h.Cache().Read(skin)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, filepath.Join(h.Cache().Dir(), "normal-hitclap.wav"), slots["normal-hitclap"])
	assert.ElementsMatch(t, []string{"normal-hitclap.ogg", "normal-hitclap.wav"}, fileNames(t, h.Cache().Dir()))
}
